// Package reddit reads submissions and comments from the Pushshift search API.
//
// Endpoints (relative to the base URL, default https://api.pushshift.io):
//   - /reddit/search/submission/  paged by created_utc, ascending
//   - /reddit/search/submission/?metadata=true&size=0  expected totals
//   - /reddit/comment/search/  comments of one submission, by score
//
// Fetcher pages through one window by moving an "after" cursor to the newest
// created_utc seen. Items sharing the boundary timestamp may come back twice;
// they collapse in the store on the submission id.
package reddit
