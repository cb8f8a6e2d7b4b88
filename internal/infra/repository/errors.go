package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
)

// notFound turns a missing row into the not_found business error and leaves
// every other store failure untouched.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound(entity)
	}
	return err
}
