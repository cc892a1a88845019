package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Thumbnails is an ordered list of image URLs stored as a JSON array in a text column.
// Anything that does not decode as an array of strings reads back as an empty list.
type Thumbnails []string

func (t *Thumbnails) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Thumbnails{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		*t = Thumbnails{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		*t = Thumbnails{}
		return nil
	}
	*t = out
	return nil
}

func (t Thumbnails) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("encode thumbnails: %w", err)
	}
	return string(b), nil
}

// List never returns nil so responses always carry an array.
func (t Thumbnails) List() []string {
	if t == nil {
		return []string{}
	}
	return t
}
