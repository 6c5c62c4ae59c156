// Package sentiment scores the daily discussion threads of a subreddit.
//
// For each date the Fetcher finds the threads whose title carries the date,
// pulls their comments, keeps the comments that mention an organization that
// is not blacklisted, scores each one and stores the mean positive, neutral,
// negative and compound scores as one row keyed by Date.
//
// Scorer and EntityRecognizer are interfaces. The bundled implementations are
// a valence lexicon scorer and a ticker/cashtag recognizer.
package sentiment
