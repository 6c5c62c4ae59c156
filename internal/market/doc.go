// Package market collects the daily market snapshot: previous closes from the
// Yahoo quote endpoint, put/call ratios from the CBOE daily statistics table
// and the CNN fear & greed reading.
//
// Quote and CBOE failures fail the snapshot. The fear & greed page has broken
// often enough that an unreadable page yields a null cell instead.
package market
