package repository

import (
	"fmt"

	"cocoa_backend/internal/common"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlugTaken is returned when a menu item slug hits the unique index.
var ErrSlugTaken = common.NewError(common.ErrConflict, "Menu item slug already exists")

// writeError maps a unique index violation to dup and wraps anything else with op.
func writeError(err error, dup error, op string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return dup
	}
	return fmt.Errorf("%s: %w", op, err)
}
