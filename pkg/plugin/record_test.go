package plugin

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordJSONNulls(t *testing.T) {
	rec := Record{Name: "bar", Owner: "foo"}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "bar",
		"createdAt": null,
		"description": null,
		"stars": 0,
		"topics": null,
		"updatedAt": null,
		"user": "foo",
		"watchers": 0
	}`, string(data))
}

func TestRecordJSONFields(t *testing.T) {
	created := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	desc := "A plugin"
	rec := Record{
		Name:        "bar",
		CreatedAt:   &created,
		Description: &desc,
		Stars:       42,
		Topics:      []string{"neovim", "lua"},
		UpdatedAt:   &created,
		Owner:       "foo",
		Watchers:    3,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "bar",
		"createdAt": "2021-03-04T05:06:07Z",
		"description": "A plugin",
		"stars": 42,
		"topics": ["neovim", "lua"],
		"updatedAt": "2021-03-04T05:06:07Z",
		"user": "foo",
		"watchers": 3
	}`, string(data))
}

func TestRecordReference(t *testing.T) {
	rec := Record{Name: "telescope.nvim", Owner: "nvim-telescope", Stars: 10}
	assert.Equal(t, Reference{Owner: "nvim-telescope", Name: "telescope.nvim"}, rec.Reference())
}

func TestRecordSameIdentity(t *testing.T) {
	a := Record{Name: "bar", Owner: "foo", Stars: 1}
	b := Record{Name: "bar", Owner: "foo", Stars: 99}
	c := Record{Name: "bar", Owner: "baz"}

	assert.True(t, a.SameIdentity(b))
	assert.False(t, a.SameIdentity(c))
}

func TestSortRecords(t *testing.T) {
	records := []Record{
		{Owner: "b", Name: "a"},
		{Owner: "a", Name: "z"},
		{Owner: "a", Name: "b"},
	}
	SortRecords(records)
	assert.Equal(t, []Record{
		{Owner: "a", Name: "b"},
		{Owner: "a", Name: "z"},
		{Owner: "b", Name: "a"},
	}, records)
}
