// Package model provides the catalog types shared by the scraper pipeline.
//
// The model package defines the documents persisted for a university: terms,
// subjects, course sections, and course descriptions, along with the transient
// fetch task used to mine descriptions. Section identity is derived from
// (term, subject, coursenum, section, type) rather than a surrogate key, so a
// fresh scrape can upsert over a previous cycle's data.
package model
