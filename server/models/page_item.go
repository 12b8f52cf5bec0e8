package models

import (
	"gorm.io/gorm"
)

// PageItem holds the columns shared by the ordered collections of a page
// (medicines, allergies and diagnoses).
type PageItem struct {
	BaseModel
	PageID       uint `json:"pageId" gorm:"not null;index"`
	DisplayOrder int  `json:"displayOrder" gorm:"not null;default:0"`
}

type orderedRow interface {
	placeOnPage(pageID uint, displayOrder int)
}

func (item *PageItem) placeOnPage(pageID uint, displayOrder int) {
	item.PageID = pageID
	item.DisplayOrder = displayOrder
}

// listOrdered returns the rows of a page by display order, oldest first on ties.
func listOrdered[T any](pageID uint, resource string) ([]T, error) {
	rows := []T{}
	err := db.Where("page_id = ?", pageID).
		Order("display_order asc, created_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, resource)
	}

	return rows, nil
}

// createOrdered inserts row as the last item of the page. The position lookup
// and the insert share a transaction.
func createOrdered(pageID uint, row orderedRow, resource string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		position, err := nextDisplayOrder(tx, row, pageID)
		if err != nil {
			return err
		}

		row.placeOnPage(pageID, position)
		return tx.Create(row).Error
	})

	return translateError(err, resource)
}

// nextDisplayOrder is one past the largest display order on the page, or 0
// for an empty collection.
func nextDisplayOrder(tx *gorm.DB, model interface{}, pageID uint) (int, error) {
	var maxOrder int64
	err := tx.Model(model).
		Select("COALESCE(MAX(display_order), -1)").
		Where("page_id = ?", pageID).
		Row().Scan(&maxOrder)
	if err != nil {
		return 0, err
	}

	return int(maxOrder) + 1, nil
}

// findOwned loads the row id into dest, provided it belongs to pageID
func findOwned(dest interface{}, pageID, id uint, resource string) error {
	return translateError(db.Scopes(ownedBy(pageID, id)).First(dest).Error, resource)
}

// updateOwned writes fields to row id when it belongs to pageID. Both
// conditions sit in one predicate, so a foreign row reads as missing.
func updateOwned(model interface{}, pageID, id uint, fields map[string]interface{}, resource string) error {
	res := db.Model(model).Scopes(ownedBy(pageID, id)).Updates(fields)
	if res.Error != nil {
		return translateError(res.Error, resource)
	}

	if res.RowsAffected == 0 {
		return notFound(resource)
	}

	return nil
}

func deleteOwned(model interface{}, pageID, id uint, resource string) error {
	res := db.Scopes(ownedBy(pageID, id)).Delete(model)
	if res.Error != nil {
		return translateError(res.Error, resource)
	}

	if res.RowsAffected == 0 {
		return notFound(resource)
	}

	return nil
}

// reorderOwned makes ids the display order of the page's collection:
// the row at ids[i] gets display order i. Every id must be unique and belong
// to the page, otherwise nothing is written. All positions are applied in one
// transaction.
func reorderOwned(model interface{}, pageID uint, ids []uint, resource string) error {
	if len(ids) == 0 {
		return newValidationError("a non-empty list of %s ids is required", resource)
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return newValidationError("duplicate %s id %d", resource, id)
		}
		seen[id] = true
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var matched int64
		err := tx.Model(model).Where("page_id = ? AND id IN ?", pageID, ids).Count(&matched).Error
		if err != nil {
			return err
		}

		if matched != int64(len(ids)) {
			return notFound(resource)
		}

		for position, id := range ids {
			err := tx.Model(model).Scopes(ownedBy(pageID, id)).Update("display_order", position).Error
			if err != nil {
				return err
			}
		}

		return nil
	})

	return translateError(err, resource)
}
