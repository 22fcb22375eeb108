// Package sqlxrepos implements the domain repositories on PostgreSQL.
// Ids follow the same max existing + 1 scheme as the record store so data
// can move between the two engines without renumbering.
package sqlxrepos

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// jsonColumn marshals any value to a jsonb column and back.
type jsonColumn struct {
	v interface{}
}

func (c jsonColumn) Value() (driver.Value, error) {
	return json.Marshal(c.v)
}

func (c *jsonColumn) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, c.v)
	case string:
		return json.Unmarshal([]byte(data), c.v)
	case nil:
		return nil
	default:
		return errors.Errorf("unsupported jsonb source %T", src)
	}
}
