package model

// IndexSnapshot is one quote of a market index at one (date, time) tick.
type IndexSnapshot struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Date       string  `gorm:"column:date;size:10;uniqueIndex:uk_index_snap,priority:1" json:"date"`
	Time       string  `gorm:"column:time;size:8;uniqueIndex:uk_index_snap,priority:2" json:"time"`
	IndexCode  string  `gorm:"column:index_code;size:10;uniqueIndex:uk_index_snap,priority:3" json:"index_code"`
	IndexName  string  `gorm:"column:index_name;size:50" json:"index_name"`
	Price      float64 `gorm:"column:current_price" json:"current_price"`
	ChangeRate float64 `gorm:"column:change_rate" json:"change_rate"`
	Volume     float64 `gorm:"column:volume" json:"volume"`
	Amount     float64 `gorm:"column:amount" json:"amount"`
}

func (IndexSnapshot) TableName() string {
	return "index_data"
}
