package model

// StockListEntry is one instrument in the tradable-universe list used to
// build the secids parameter for full-market auction fetches.
// Market is the upstream exchange tag: 0 for Shenzhen, 1 for Shanghai.
type StockListEntry struct {
	Code   string `gorm:"column:code;primaryKey;size:10" json:"code"`
	Name   string `gorm:"column:name;size:50" json:"name"`
	Market int    `gorm:"column:market" json:"market"`
}

func (StockListEntry) TableName() string {
	return "stock_list"
}
