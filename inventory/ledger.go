// Package inventory owns variant stock mutation. Both operations are
// storage-level conditional updates so that concurrent checkouts across
// processes cannot oversell; callers supply the enclosing transaction and
// the ledger never opens its own.
package inventory

import (
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/apperrors"
	"github.com/kimsinwoo/lupl-backend/models"
)

// Reserve decrements a variant's stock by quantity, failing with
// ErrInsufficientStock when fewer than quantity units remain. The guard and
// the decrement are a single UPDATE, so two reservations of the last unit
// cannot both succeed.
func Reserve(tx *gorm.DB, variantID string, quantity int) error {
	if quantity < 1 {
		return apperrors.ErrInvalidQuantity
	}
	res := tx.Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing variant from a short one.
		var count int64
		if err := tx.Model(&models.ProductVariant{}).
			Where("id = ?", variantID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.ErrVariantNotFound
		}
		return apperrors.ErrInsufficientStock
	}
	return nil
}

// Release returns quantity units to a variant's stock. Used by cancellation;
// never fails for a valid variant.
func Release(tx *gorm.DB, variantID string, quantity int) error {
	if quantity < 1 {
		return apperrors.ErrInvalidQuantity
	}
	res := tx.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrVariantNotFound
	}
	return nil
}
