package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

// Save writes records to path as a JSON array sorted by owner, then name.
// With pretty set the output is indented by two spaces.
func Save(path string, records []plugin.Record, pretty bool) error {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []plugin.Record{}
	}
	plugin.SortRecords(sorted)

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(sorted, "", "  ")
	} else {
		data, err = json.Marshal(sorted)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode index")
	}
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "write index %s", path)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path, syncs it and
// renames it over path. On failure the temporary file is removed and path
// is left untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
