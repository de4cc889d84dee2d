package postgres

import "gorm.io/gorm"

// oldestFirst orders by creation time, breaking ties by id so pages are stable.
func oldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// newestAuditFirst orders audit rows by the time the action happened.
func newestAuditFirst(db *gorm.DB) *gorm.DB {
	return db.Order("timestamp DESC").Order("id DESC")
}

// forCreator returns a GORM scope that filters tests by the creating user.
func forCreator(email string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("creator_email = ?", email)
	}
}
