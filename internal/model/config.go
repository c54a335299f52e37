package model

import "time"

// APIConfig is the persisted row form of a RequestDescriptor, one row per
// named upstream source. Headers and structured bodies are stored as JSON
// text; opaque string bodies are stored verbatim.
type APIConfig struct {
	Name      string    `gorm:"column:name;primaryKey;size:64" json:"name"`
	URL       string    `gorm:"column:url;type:text" json:"url"`
	Method    string    `gorm:"column:method;size:10" json:"method"`
	Headers   string    `gorm:"column:headers;type:text" json:"headers"`
	Body      string    `gorm:"column:body;type:text" json:"body"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (APIConfig) TableName() string {
	return "api_configs"
}
