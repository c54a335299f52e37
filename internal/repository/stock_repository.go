package repository

import (
	"gorm.io/gorm"

	"github.com/zhixing/auctionradar/internal/model"
)

type StockRepository interface {
	ReplaceAll(entries []*model.StockListEntry) error
	All() ([]*model.StockListEntry, error)
}

type gormStockRepository struct {
	db *gorm.DB
}

func NewGormStockRepository(db *gorm.DB) StockRepository {
	return &gormStockRepository{db: db}
}

// ReplaceAll swaps the whole universe in one transaction.
func (r *gormStockRepository) ReplaceAll(entries []*model.StockListEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.StockListEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 500).Error
	})
}

func (r *gormStockRepository) All() ([]*model.StockListEntry, error) {
	var entries []*model.StockListEntry
	err := r.db.Order("code").Find(&entries).Error
	return entries, err
}
