package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhixing/auctionradar/internal/model"
)

type IndexRepository interface {
	UpsertBatch(snaps []*model.IndexSnapshot) error
	LatestForDate(date string) ([]*model.IndexSnapshot, error)
}

type gormIndexRepository struct {
	db *gorm.DB
}

func NewGormIndexRepository(db *gorm.DB) IndexRepository {
	return &gormIndexRepository{db: db}
}

func (r *gormIndexRepository) UpsertBatch(snaps []*model.IndexSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "time"}, {Name: "index_code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"index_name", "current_price", "change_rate", "volume", "amount",
		}),
	}).CreateInBatches(snaps, 500).Error
}

// LatestForDate returns each index at its most recent tick of the date.
func (r *gormIndexRepository) LatestForDate(date string) ([]*model.IndexSnapshot, error) {
	var snaps []*model.IndexSnapshot
	err := r.db.
		Table("index_data AS i").
		Joins(`JOIN (
			SELECT index_code, MAX(time) AS max_time
			FROM index_data
			WHERE date = ?
			GROUP BY index_code
		) AS latest ON i.index_code = latest.index_code AND i.time = latest.max_time`, date).
		Where("i.date = ?", date).
		Find(&snaps).Error
	return snaps, err
}
