// Package uni drives a full scrape cycle for one university.
//
// A university implementation knows how to log in to its portal, enumerate
// current terms and subjects, fetch a term's class listing, and parse that
// listing to completion. The package-level Scrape driver sequences those
// capabilities and owns the term replacement cycle; everything else is
// delegated. Per-term parsing is strictly sequential, with the description
// fetch pool as the only concurrent stage, and a term is not finished until
// every queued description has been fetched and stored.
package uni
