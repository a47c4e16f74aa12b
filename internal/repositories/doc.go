// Package repositories provides the local SQLite cache layer.
//
// The cache mirrors backend book records for offline listing and records
// download history. It is strictly a cache: the backend owns every book
// record, and cached rows are replaced wholesale on each fetch.
package repositories
