package repository

import (
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhixing/auctionradar/internal/curlcmd"
	"github.com/zhixing/auctionradar/internal/model"
)

type ConfigRepository interface {
	Upsert(name string, desc *model.RequestDescriptor) error
	Get(name string) (*model.RequestDescriptor, error)
}

type gormConfigRepository struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewGormConfigRepository(db *gorm.DB, log *logrus.Logger) ConfigRepository {
	return &gormConfigRepository{db: db, log: log}
}

// Upsert stores the descriptor under its source name, replacing any previous
// capture for that name.
func (r *gormConfigRepository) Upsert(name string, desc *model.RequestDescriptor) error {
	headers, err := json.Marshal(desc.Headers)
	if err != nil {
		return err
	}

	row := &model.APIConfig{
		Name:    name,
		URL:     desc.URL,
		Method:  desc.Method,
		Headers: string(headers),
		Body:    encodeBody(desc.Body),
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "method", "headers", "body"}),
	}).Create(row).Error
}

// Get loads a stored capture and rebuilds the descriptor, including the
// display curl command.
func (r *gormConfigRepository) Get(name string) (*model.RequestDescriptor, error) {
	var row model.APIConfig
	if err := r.db.Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	headers := map[string]string{}
	if row.Headers != "" {
		if err := json.Unmarshal([]byte(row.Headers), &headers); err != nil {
			r.log.WithError(err).WithField("name", name).Warn("stored headers not valid JSON, ignoring")
			headers = map[string]string{}
		}
	}

	desc := &model.RequestDescriptor{
		Name:    name,
		URL:     row.URL,
		Method:  row.Method,
		Headers: headers,
		Body:    decodeBody(row.Body),
	}
	desc.Curl = curlcmd.Serialize(desc)
	return desc, nil
}

// encodeBody stores structured bodies as JSON text and strings verbatim.
func encodeBody(body any) string {
	switch b := body.(type) {
	case nil:
		return ""
	case string:
		return b
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func decodeBody(stored string) any {
	if stored == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(stored), &v); err == nil {
		switch v.(type) {
		case map[string]any, []any:
			return v
		}
	}
	return stored
}
