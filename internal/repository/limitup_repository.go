package repository

import (
	"gorm.io/gorm"

	"github.com/zhixing/auctionradar/internal/model"
)

type LimitUpRepository interface {
	ReplaceForDate(date string, stocks []*model.LimitUpStock) error
	FindFiltered(date string) ([]*model.LimitUpStock, error)
	FindByCodes(date string, codes []string) ([]*model.LimitUpStock, error)
	UpdateBoards(date, code string, consecutiveDays int) (int64, error)
}

type gormLimitUpRepository struct {
	db *gorm.DB
}

func NewGormLimitUpRepository(db *gorm.DB) LimitUpRepository {
	return &gormLimitUpRepository{db: db}
}

// ReplaceForDate swaps the full row set for a date inside one transaction so
// readers never observe a partially synced day.
func (r *gormLimitUpRepository) ReplaceForDate(date string, stocks []*model.LimitUpStock) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", date).Delete(&model.LimitUpStock{}).Error; err != nil {
			return err
		}
		if len(stocks) == 0 {
			return nil
		}
		return tx.CreateInBatches(stocks, 500).Error
	})
}

// FindFiltered returns the stocks that matter for next-morning tracking:
// multi-day runners that are not ST names.
func (r *gormLimitUpRepository) FindFiltered(date string) ([]*model.LimitUpStock, error) {
	var stocks []*model.LimitUpStock
	err := r.db.
		Where("date = ? AND consecutive_days >= ? AND consecutive_boards > ? AND name NOT LIKE ?",
			date, 2, 1, "%ST%").
		Order("consecutive_days DESC").
		Find(&stocks).Error
	return stocks, err
}

func (r *gormLimitUpRepository) FindByCodes(date string, codes []string) ([]*model.LimitUpStock, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var stocks []*model.LimitUpStock
	err := r.db.Where("date = ? AND code IN ?", date, codes).Find(&stocks).Error
	return stocks, err
}

// UpdateBoards sets the consecutive-board count for one row, used by the
// spreadsheet import to patch board counts the feed got wrong.
func (r *gormLimitUpRepository) UpdateBoards(date, code string, consecutiveBoards int) (int64, error) {
	result := r.db.Model(&model.LimitUpStock{}).
		Where("date = ? AND code = ?", date, code).
		Update("consecutive_boards", consecutiveBoards)
	return result.RowsAffected, result.Error
}
