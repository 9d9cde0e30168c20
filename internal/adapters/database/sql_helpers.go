package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE PostgreSQL raises for duplicate keys
const uniqueViolation = "23505"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// rollback is deferred after BeginTx; it is a no-op once the tx committed
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}

// textArray binds a TEXT[] column; nil becomes an empty array, not NULL
func textArray(v []string) interface{} {
	if v == nil {
		v = []string{}
	}
	return pq.Array(v)
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
