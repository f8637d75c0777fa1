// Package library persists video, caption-set, and export lifecycle records
// in SQLite.
//
// The Store manages connections, schema initialization, and the status
// vocabulary for each record type. Records are thin state holders: the
// transcription and render components never touch persistence themselves;
// their callers write status transitions around the calls. Listings are
// ordered newest-first because "most recent wins" is the selection policy
// when a video has several caption sets or exports.
//
// Schema changes bump the version in schema.go; the database holds
// reproducible pipeline state, so clearing it on a version mismatch is the
// supported upgrade path.
package library
