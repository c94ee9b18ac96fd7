// Package desc mines free-text course descriptions from a university's
// course catalog site.
//
// Descriptions live on per-course calendar pages that are independent of the
// registration portal. A bounded pool of workers drains the fetch tasks
// queued while a term's listing was parsed; each worker fetches the page,
// extracts the description fields, and upserts the result. A missing or
// broken page still stores a minimal record so the course is not re-fetched
// on every later cycle.
package desc
