package model

// LimitUpStock is a stock that closed at its limit-up price on a prior
// trading day, captured from the concept-grouped upstream feed. Rows for a
// date are replaced wholesale on each sync.
type LimitUpStock struct {
	ID                int64  `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Date              string `gorm:"column:date;size:10;uniqueIndex:uk_limit_up,priority:1" json:"date"`
	Code              string `gorm:"column:code;size:10;uniqueIndex:uk_limit_up,priority:2" json:"code"`
	Name              string `gorm:"column:name;size:50" json:"name"`
	LimitUpType       string `gorm:"column:limit_up_type;size:100" json:"limit_up_type"`
	ConsecutiveDays   int    `gorm:"column:consecutive_days" json:"consecutive_days"`
	ConsecutiveBoards int    `gorm:"column:consecutive_boards" json:"consecutive_boards"`
	DaysBoards        string `gorm:"column:days_boards;size:20" json:"days_boards"`
	LimitUpForm       string `gorm:"column:limit_up_form;size:20" json:"limit_up_form"`
	FirstLimitUpTime  string `gorm:"column:first_limit_up_time;size:8" json:"first_limit_up_time"`
	LastLimitUpTime   string `gorm:"column:last_limit_up_time;size:8" json:"last_limit_up_time"`
	OpenCount         int    `gorm:"column:open_count" json:"open_count"`
	Expound           string `gorm:"column:expound;type:text" json:"expound"`
}

func (LimitUpStock) TableName() string {
	return "yesterday_limit_up"
}
