// Package temporal extracts natural-language time windows from query text.
//
// A fixed, ordered set of expressions is recognized ("today", "yesterday",
// "last N days", "last week", "this week", "last month", "this month");
// the first match wins. Queries without a temporal expression produce no
// filter. Strip removes the matched phrasing so it does not dilute the
// semantic embedding of the query.
package temporal
