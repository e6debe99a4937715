package postgres

import (
	"database/sql"
	"fmt"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// PersistError wraps a storage failure that survived every degrade step.
type PersistError struct {
	Entity string
	Op     string
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s %s: %v", e.Entity, e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullableInt64(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func nullInt64ToPtr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func nullStringToPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
