package server

import (
	"os"
	"sync"
	"time"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/plugin"
	"github.com/matzehuels/plugindex/pkg/store"
)

// snapshot is an immutable view of the index file at one point in time.
type snapshot struct {
	raw     []byte
	records []plugin.Record
	index   *plugin.Index
	modTime time.Time
	size    int64
}

// loader caches the last snapshot of path and reloads it on change.
type loader struct {
	path string

	mu   sync.Mutex
	last *snapshot
}

func (l *loader) current() (*snapshot, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "index %s does not exist", l.path)
		}
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "stat index %s", l.path)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last != nil && l.last.modTime.Equal(info.ModTime()) && l.last.size == info.Size() {
		return l.last, nil
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "read index %s", l.path)
	}
	records, err := store.Decode(raw)
	if err != nil {
		// Keep serving the previous good snapshot while a writer is mid-way.
		if l.last != nil {
			return l.last, nil
		}
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "load index %s", l.path)
	}
	plugin.SortRecords(records)
	l.last = &snapshot{
		raw:     raw,
		records: records,
		index:   plugin.NewIndex(records...),
		modTime: info.ModTime(),
		size:    info.Size(),
	}
	return l.last, nil
}
