package server

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// query is a parsed /api/plugins request.
type query struct {
	Text   string
	Sort   string
	Limit  int
	Offset int
}

var sorters = map[string]func(a, b plugin.Record) int{
	"name":    func(a, b plugin.Record) int { return 0 },
	"stars":   func(a, b plugin.Record) int { return cmp.Compare(b.Stars, a.Stars) },
	"updated": func(a, b plugin.Record) int { return compareTimeDesc(a.UpdatedAt, b.UpdatedAt) },
	"created": func(a, b plugin.Record) int { return compareTimeDesc(a.CreatedAt, b.CreatedAt) },
}

func parseQuery(v url.Values) (query, error) {
	q := query{
		Text:  strings.TrimSpace(v.Get("q")),
		Sort:  v.Get("sort"),
		Limit: defaultLimit,
	}
	if q.Sort == "" {
		q.Sort = "name"
	}
	if _, ok := sorters[q.Sort]; !ok {
		return q, errors.New(errors.ErrCodeInvalidInput, "unknown sort %q (want name, stars, updated or created)", q.Sort)
	}
	var err error
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil || q.Limit < 1 || q.Limit > maxLimit {
			return q, errors.New(errors.ErrCodeInvalidInput, "limit must be between 1 and %d", maxLimit)
		}
	}
	if s := v.Get("offset"); s != "" {
		if q.Offset, err = strconv.Atoi(s); err != nil || q.Offset < 0 {
			return q, errors.New(errors.ErrCodeInvalidInput, "offset must be a non-negative integer")
		}
	}
	return q, nil
}

// run filters, sorts and pages records. records must already be in
// owner/name order, which is also the tiebreak for every sort.
func (q query) run(records []plugin.Record) (total int, page []plugin.Record) {
	matched := make([]plugin.Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, q.Text) {
			matched = append(matched, rec)
		}
	}
	slices.SortStableFunc(matched, sorters[q.Sort])

	total = len(matched)
	if q.Offset >= total {
		return total, []plugin.Record{}
	}
	end := min(q.Offset+q.Limit, total)
	return total, matched[q.Offset:end]
}

// matches reports whether every whitespace-separated term of text occurs,
// case-insensitively, in the record's owner/name, description or topics.
func matches(rec plugin.Record, text string) bool {
	if text == "" {
		return true
	}
	var hay strings.Builder
	hay.WriteString(strings.ToLower(rec.Owner + "/" + rec.Name))
	if rec.Description != nil {
		hay.WriteString(" ")
		hay.WriteString(strings.ToLower(*rec.Description))
	}
	for _, t := range rec.Topics {
		hay.WriteString(" ")
		hay.WriteString(strings.ToLower(t))
	}
	h := hay.String()
	for _, term := range strings.Fields(strings.ToLower(text)) {
		if !strings.Contains(h, term) {
			return false
		}
	}
	return true
}

// compareTimeDesc orders newer times first and missing times last.
func compareTimeDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return b.Compare(*a)
}
