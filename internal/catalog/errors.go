package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrRepositoryRequired = errors.New("catalog: product repository is required")
	ErrDatabaseRequired   = errors.New("catalog: database not configured")
)

// QueryError reports a DataStore failure while listing products.
type QueryError struct {
	Query ListQuery
	Err   error
}

func (e *QueryError) Error() string {
	if e == nil || e.Err == nil {
		return "catalog: query failed"
	}
	return fmt.Sprintf("catalog: query %q failed: %v", e.Query.String(), e.Err)
}

func (e *QueryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
