package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ChangeSet is the activity log changes payload persisted as JSONB. For
// creates and deletes it holds a full field snapshot; for updates it maps
// field names to {from,to} pairs.
type ChangeSet map[string]any

// Value marshals the map into JSON for Postgres.
func (c ChangeSet) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (c *ChangeSet) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("change set: unsupported scan type %T", value)
	}

	result := make(ChangeSet)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*c = result
	return nil
}
