package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/01moynul/storefront-golang/internal/commerce"
)

const errDuplicateEntry = 1062

func isDuplicate(err error) (*mysql.MySQLError, bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
		return myErr, true
	}
	return nil, false
}

// notFound turns sql.ErrNoRows into commerce.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", commerce.ErrNotFound, what)
	}
	return fmt.Errorf("query %s: %w", what, err)
}

// duplicate maps unique key violations onto the domain errors.
func duplicate(err error, what string) error {
	myErr, ok := isDuplicate(err)
	if !ok {
		return fmt.Errorf("insert %s: %w", what, err)
	}
	if strings.Contains(myErr.Message, "payment_session") {
		return fmt.Errorf("%w: %s", commerce.ErrDuplicatePayment, myErr.Message)
	}
	return fmt.Errorf("%w: %s", commerce.ErrAlreadyExists, what)
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func nullableID(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func idPointer(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
