package persistence

import (
	"errors"

	"github.com/stocksync/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateNotFound maps GORM's record-not-found to the domain error. Rows
// filtered away by the tenant scope surface here exactly like missing rows.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
