package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// Latest keeps only the newest row.
func Latest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Limit(1)
}
