package repository

import (
	"errors"

	"github.com/lib/pq"
)

func isPqError(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	return false
}
