// Package store reads, writes and validates index files.
//
// An index file is a JSON array of [plugin.Record] values. [Load] also
// accepts an object keyed by "owner/name", the layout older tooling wrote,
// and [Save] always writes the array form sorted by owner and name.
//
// Writes are atomic: the data goes to a temporary file in the destination
// directory, is synced, and is then renamed over the target.
//
// [Validate] checks an index against the embedded JSON schema and the
// one-record-per-plugin invariant.
package store
