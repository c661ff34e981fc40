package plugin

import (
	"cmp"
	"slices"
	"time"
)

// Record is the metadata snapshot of a single plugin.
//
// Optional fields are pointers or nil slices so that an absent value
// serializes as JSON null rather than an empty string.
type Record struct {
	Name        string     `json:"name"`
	CreatedAt   *time.Time `json:"createdAt"`
	Description *string    `json:"description"`
	Stars       uint       `json:"stars"`
	Topics      []string   `json:"topics"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	Owner       string     `json:"user"`
	Watchers    uint       `json:"watchers"`
}

// Reference downgrades the record to the reference that identifies it.
func (r Record) Reference() Reference {
	return Reference{Owner: r.Owner, Name: r.Name}
}

// SameIdentity reports whether r and other describe the same plugin,
// ignoring every field except name and owner.
func (r Record) SameIdentity(other Record) bool {
	return r.Name == other.Name && r.Owner == other.Owner
}

// compareRecords orders records by owner, then name.
func compareRecords(a, b Record) int {
	if c := cmp.Compare(a.Owner, b.Owner); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// SortRecords sorts records in place by owner, then name.
func SortRecords(records []Record) {
	slices.SortFunc(records, compareRecords)
}
