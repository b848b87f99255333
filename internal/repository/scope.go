package repository

import (
	"time"

	"gorm.io/gorm"
)

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// inRange filters a date column to r and, when storeID is set, to one store.
func inRange(column string, r DateRange, storeID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(column+" BETWEEN ? AND ?", r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
		if storeID != "" {
			db = db.Where("store_id = ?", storeID)
		}
		return db
	}
}
