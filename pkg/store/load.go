package store

import (
	"encoding/json"
	"os"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

// Load reads the records stored at path. A missing file yields no records
// and no error; an unreadable or malformed file is a PERSISTENCE_ERROR.
func Load(path string) ([]plugin.Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "read index %s", path)
	}
	records, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "load index %s", path)
	}
	return records, nil
}

// Decode parses index data in either the array or the keyed-object form.
// Records are returned in document order.
func Decode(data []byte) ([]plugin.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrCodeDecode, "invalid JSON")
	}
	root := gjson.ParseBytes(data)

	var (
		records []plugin.Record
		decErr  error
	)
	switch {
	case root.IsArray():
		root.ForEach(func(key, value gjson.Result) bool {
			rec, err := decodeRecord(value)
			if err != nil {
				decErr = errors.Wrap(errors.ErrCodeDecode, err, "record %d", key.Int())
				return false
			}
			records = append(records, rec)
			return true
		})
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			rec, err := decodeRecord(value)
			if err != nil {
				decErr = errors.Wrap(errors.ErrCodeDecode, err, "record %q", key.String())
				return false
			}
			if rec.Owner == "" || rec.Name == "" {
				ref, err := plugin.ParseReference(key.String())
				if err != nil {
					decErr = errors.Wrap(errors.ErrCodeDecode, err, "record %q", key.String())
					return false
				}
				if rec.Owner == "" {
					rec.Owner = ref.Owner
				}
				if rec.Name == "" {
					rec.Name = ref.Name
				}
			}
			records = append(records, rec)
			return true
		})
	default:
		return nil, errors.New(errors.ErrCodeDecode, "index must be a JSON array or object, got %s", root.Type)
	}
	if decErr != nil {
		return nil, decErr
	}
	return records, nil
}

func decodeRecord(value gjson.Result) (plugin.Record, error) {
	var rec plugin.Record
	if !value.IsObject() {
		return rec, errors.New(errors.ErrCodeDecode, "expected an object, got %s", value.Type)
	}
	if err := json.Unmarshal([]byte(value.Raw), &rec); err != nil {
		return rec, err
	}
	return rec, nil
}
