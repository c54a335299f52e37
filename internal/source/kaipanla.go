package source

import (
	"encoding/json"

	"github.com/zhixing/auctionradar/internal/model"
)

// IndexRecord is one index quote in the market-index payload. ChangeRate
// arrives as a percent string like "1.23%".
type IndexRecord struct {
	Code   FlexString `json:"StockID"`
	Name   FlexString `json:"prod_name"`
	Price  FlexFloat  `json:"last_px"`
	Change FlexFloat  `json:"pxChangeRate"`
	Volume FlexFloat  `json:"business_balance"`
	Amount FlexFloat  `json:"business_amount"`
}

// ParseIndexResponse extracts index records from the payload. The records
// live under "data" or "list", as an array or a single object.
func ParseIndexResponse(payload []byte) ([]IndexRecord, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
		List json.RawMessage `json:"list"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, err
	}

	raw := envelope.Data
	if len(raw) == 0 || string(raw) == "null" {
		raw = envelope.List
	}
	if len(raw) == 0 || string(raw) == "null" {
		// Flat payload with the record at the top level.
		raw = payload
	}

	var records []IndexRecord
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var single IndexRecord
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	if single.Code == "" {
		return nil, nil
	}
	return []IndexRecord{single}, nil
}

// NormalizeIndex turns index records into snapshots at one (date, time).
func NormalizeIndex(records []IndexRecord, date, recordTime string) []*model.IndexSnapshot {
	snaps := make([]*model.IndexSnapshot, 0, len(records))
	for _, rec := range records {
		if rec.Code == "" {
			continue
		}
		snaps = append(snaps, &model.IndexSnapshot{
			Date:       date,
			Time:       recordTime,
			IndexCode:  string(rec.Code),
			IndexName:  string(rec.Name),
			Price:      float64(rec.Price),
			ChangeRate: float64(rec.Change),
			Volume:     float64(rec.Volume),
			Amount:     float64(rec.Amount),
		})
	}
	return snaps
}
