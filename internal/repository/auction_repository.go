package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhixing/auctionradar/internal/model"
)

type AuctionRepository interface {
	ReplaceBatch(ticks []*model.AuctionTick) error
	TopNInWindow(date, startTime, endTime string, limit int) ([]*model.AuctionTick, error)
	LatestInWindow(date, startTime, endTime string, codes []string) ([]*model.AuctionTick, error)
	TicksInWindow(date, startTime, endTime string) ([]*model.AuctionTick, error)
}

type gormAuctionRepository struct {
	db *gorm.DB
}

func NewGormAuctionRepository(db *gorm.DB) AuctionRepository {
	return &gormAuctionRepository{db: db}
}

// ReplaceBatch writes a fetched batch, overwriting rows that share the
// (date, time, code) key so a re-fetch of the same tick is idempotent.
func (r *gormAuctionRepository) ReplaceBatch(ticks []*model.AuctionTick) error {
	if len(ticks) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "time"}, {Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "sector", "price",
			"bidding_percent", "bidding_amount", "asking_amount", "move_type",
		}),
	}).CreateInBatches(ticks, 500).Error
}

// TopNInWindow returns the top rows by ask amount at each instrument's most
// recent tick inside the window.
func (r *gormAuctionRepository) TopNInWindow(date, startTime, endTime string, limit int) ([]*model.AuctionTick, error) {
	var ticks []*model.AuctionTick
	err := r.db.
		Table("call_auction_data AS c").
		Joins(`JOIN (
			SELECT code, MAX(time) AS max_time
			FROM call_auction_data
			WHERE date = ? AND time >= ? AND time < ?
			GROUP BY code
		) AS latest ON c.code = latest.code AND c.time = latest.max_time`, date, startTime, endTime).
		Where("c.date = ?", date).
		Order("c.asking_amount DESC").
		Limit(limit).
		Find(&ticks).Error
	return ticks, err
}

// LatestInWindow returns the most recent tick inside the window for each of
// the given codes.
func (r *gormAuctionRepository) LatestInWindow(date, startTime, endTime string, codes []string) ([]*model.AuctionTick, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var ticks []*model.AuctionTick
	err := r.db.
		Table("call_auction_data AS c").
		Joins(`JOIN (
			SELECT code, MAX(time) AS max_time
			FROM call_auction_data
			WHERE date = ? AND time >= ? AND time < ? AND code IN ?
			GROUP BY code
		) AS latest ON c.code = latest.code AND c.time = latest.max_time`, date, startTime, endTime, codes).
		Where("c.date = ?", date).
		Find(&ticks).Error
	return ticks, err
}

// TicksInWindow returns every tick in the window ordered by ask amount.
func (r *gormAuctionRepository) TicksInWindow(date, startTime, endTime string) ([]*model.AuctionTick, error) {
	var ticks []*model.AuctionTick
	err := r.db.
		Where("date = ? AND time >= ? AND time < ?", date, startTime, endTime).
		Order("asking_amount DESC").
		Find(&ticks).Error
	return ticks, err
}
