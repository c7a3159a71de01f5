package store

import (
	"database/sql"
	"time"
)

// marshalTime converts t to unix seconds for storage.
// The zero time is stored as 0.
func marshalTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// unmarshalTime converts stored unix seconds back to a time.
// NULL and 0 both read as the zero time.
func unmarshalTime(v sql.NullInt64) time.Time {
	if !v.Valid || v.Int64 == 0 {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0).UTC()
}

// nullString maps an empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
