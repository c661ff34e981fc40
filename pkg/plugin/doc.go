// Package plugin defines the plugin index data model.
//
// # Overview
//
// Three types carry the index through a run:
//
//   - [Reference]: an owner/name pair scraped from markdown or typed by a user
//   - [Record]: a metadata snapshot of one plugin, as persisted on disk
//   - [Index]: a set of records with no two sharing (name, owner)
//
// [ReferenceSet] is the insertion-ordered set used while extracting and
// merging references, and [Merge] reconciles a fresh scrape with the
// records of a previously written index.
//
// # Identity
//
// A Reference is identified by (Owner, Name) and a Record by (Name, Owner).
// Both comparisons are case-sensitive, exactly as scraped.
package plugin
