package model

// AuctionTick is one observation of one instrument at one (date, time) tick
// of the pre-market call auction. The same tick may be re-fetched, so writes
// replace on the (date, time, code) key instead of appending.
//
// Date is "YYYY-MM-DD" and Time is "HH:MM:SS"; both compare chronologically
// as strings, which the window queries rely on.
type AuctionTick struct {
	ID             int64   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Date           string  `gorm:"column:date;size:10;uniqueIndex:uk_auction_tick,priority:1" json:"date"`
	Time           string  `gorm:"column:time;size:8;uniqueIndex:uk_auction_tick,priority:2" json:"time"`
	Code           string  `gorm:"column:code;size:10;uniqueIndex:uk_auction_tick,priority:3" json:"code"`
	Name           string  `gorm:"column:name;size:50" json:"name"`
	Sector         string  `gorm:"column:sector;size:100" json:"sector"`
	Price          float64 `gorm:"column:price" json:"price"`
	BiddingPercent float64 `gorm:"column:bidding_percent" json:"bidding_percent"`
	BiddingAmount  float64 `gorm:"column:bidding_amount" json:"bidding_amount"`
	AskingAmount   float64 `gorm:"column:asking_amount" json:"asking_amount"`
	MoveType       string  `gorm:"column:move_type;size:20" json:"move_type"`
}

func (AuctionTick) TableName() string {
	return "call_auction_data"
}
