package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a JSON-encoded list of strings in a text column. Both the
// sqlite and postgres dialects carry it as plain text. A NULL column scans to a
// nil slice, which is how the migration engine distinguishes "field missing"
// from an explicitly empty list.
type StringList []string

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("StringList: unsupported Scan type %T", src)
	}

	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: decode %q: %w", string(raw), err)
	}
	if out == nil {
		out = []string{}
	}
	*l = StringList(out)
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("StringList: encode: %w", err)
	}
	return string(raw), nil
}

// Contains reports whether the list holds the exact value.
func (l StringList) Contains(value string) bool {
	for _, v := range l {
		if v == value {
			return true
		}
	}
	return false
}
