package dbtime

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is zero padded so that lexicographic and chronological ordering of
// stored timestamps coincide; the database sorts them as plain text.
const Layout = "2006/01/02 15:04:05"

// Time represents a nullable timestamp stored as sortable text.
// It can be used as a scan destination and can be marshalled to JSON.
type Time struct {
	time    time.Time
	isValid bool
}

// Now returns the current local time; the store is owned by a single
// installation, so local clock timestamps are acceptable.
func Now() Time {
	return Time{time.Now(), true}
}

// At wraps an existing time.Time, truncating sub-second precision on format.
func At(t time.Time) Time {
	return Time{t, true}
}

// Parse reads a timestamp in the storage layout.
func Parse(value string) (Time, error) {
	parsed, err := time.ParseInLocation(Layout, value, time.Local)
	if err != nil {
		return Time{}, err
	}
	return Time{parsed, true}, nil
}

func (t Time) String() string {
	return t.time.Format(Layout)
}

func (t Time) Before(other Time) bool {
	return t.time.Before(other.time)
}

func (t Time) IsValid() bool {
	return t.isValid
}

// UnmarshalJSON parses a quoted timestamp in the storage layout.
func (t *Time) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("malformed timestamp %q", b)
	}
	parsed, err := Parse(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON operates on values rather than pointers, given Time's heft.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.isValid {
		return []byte(fmt.Sprintf("%q", t.String())), nil
	}
	return []byte("null"), nil
}

// Scan implements the Scanner interface; SQLite hands back TEXT columns as
// strings or byte slices depending on the driver's mood.
func (t *Time) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*t = Time{}
		return nil
	case time.Time:
		*t = Time{v, true}
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("can't scan %T into dbtime.Time", value)
	}
}

// Value implements the driver Valuer interface.
func (t Time) Value() (driver.Value, error) {
	if t.isValid {
		return driver.Value(t.String()), nil
	}
	return nil, nil
}
