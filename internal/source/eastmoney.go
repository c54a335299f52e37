package source

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zhixing/auctionradar/internal/model"
)

// Source names under which captured requests are stored.
const (
	NameEastmoneyAuction = "eastmoney_call_auction"
	NameJiuyanLimitUp    = "jiuyan_limit_up"
	NameKaipanlaAuction  = "kaipanla_call_auction"
	NameKaipanlaVolume   = "kaipanla_volume"
	NameKaipanlaIndex    = "kaipanla_index"
)

const auctionTopN = 200

// QuoteRecord is one instrument in the quote-list payload. Field names are
// the feed's numeric column codes.
type QuoteRecord struct {
	Code           FlexString `json:"f12"`
	Name           FlexString `json:"f14"`
	Sector         FlexString `json:"f100"`
	Price          FlexFloat  `json:"f2"`
	BiddingPercent FlexFloat  `json:"f615"`
	BiddingAmount  FlexFloat  `json:"f616"`
	Unmatched      FlexFloat  `json:"f618"`
	MoveType       FlexString `json:"f265"`
}

type quoteEnvelope struct {
	Data *struct {
		Diff json.RawMessage `json:"diff"`
		Full json.RawMessage `json:"full"`
	} `json:"data"`
}

// ParseQuoteResponse extracts the record list from a quote-list payload.
// The list lives under data.diff or data.full and is either an array or an
// index-keyed object; records that fail to decode are skipped with a warn.
func ParseQuoteResponse(payload []byte, log *logrus.Logger) ([]QuoteRecord, error) {
	var envelope quoteEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, nil
	}

	raw := envelope.Data.Diff
	if len(raw) == 0 || string(raw) == "null" {
		raw = envelope.Data.Full
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// Index-keyed object variant.
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keyed); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			items = append(items, keyed[k])
		}
	}

	records := make([]QuoteRecord, 0, len(items))
	for _, item := range items {
		var rec QuoteRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			log.WithError(err).Warn("skipping undecodable quote record")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// NormalizeAuction turns raw quote records into auction ticks for one
// (date, time) observation: ST and delisting names are dropped, rows with
// neither a price nor a bid are dropped, the rest are ranked by ask then bid
// amount and cut to the stored depth.
func NormalizeAuction(records []QuoteRecord, date, recordTime string) []*model.AuctionTick {
	ticks := make([]*model.AuctionTick, 0, len(records))
	for _, rec := range records {
		name := string(rec.Name)
		if strings.HasPrefix(name, "ST") || strings.HasPrefix(name, "*") || strings.HasSuffix(name, "退") {
			continue
		}
		if rec.Price == 0 && rec.BiddingAmount == 0 {
			continue
		}
		ticks = append(ticks, &model.AuctionTick{
			Date:           date,
			Time:           recordTime,
			Code:           string(rec.Code),
			Name:           name,
			Sector:         string(rec.Sector),
			Price:          float64(rec.Price),
			BiddingPercent: float64(rec.BiddingPercent),
			BiddingAmount:  float64(rec.BiddingAmount),
			AskingAmount:   float64(rec.BiddingAmount) + float64(rec.Unmatched),
			MoveType:       string(rec.MoveType),
		})
	}

	sort.SliceStable(ticks, func(i, j int) bool {
		if ticks[i].AskingAmount != ticks[j].AskingAmount {
			return ticks[i].AskingAmount > ticks[j].AskingAmount
		}
		return ticks[i].BiddingAmount > ticks[j].BiddingAmount
	})

	if len(ticks) > auctionTopN {
		ticks = ticks[:auctionTopN]
	}
	return ticks
}
