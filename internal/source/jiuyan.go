package source

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/zhixing/auctionradar/internal/model"
)

const maxTypeLabelRunes = 50

// ConceptGroup is one concept bucket in the limit-up payload; the same stock
// can appear under several buckets.
type ConceptGroup struct {
	Name string         `json:"name"`
	List []ConceptStock `json:"list"`
}

type ConceptStock struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Article *struct {
		ActionInfo *ActionInfo `json:"action_info"`
	} `json:"article"`
}

// ActionInfo carries the limit-up history of one stock.
type ActionInfo struct {
	Day     FlexInt    `json:"day"`
	Edition FlexInt    `json:"edition"`
	Num     FlexString `json:"num"`
	Time    FlexString `json:"time"`
	Expound FlexString `json:"expound"`
}

type limitUpEnvelope struct {
	Data []ConceptGroup `json:"data"`
}

// ParseLimitUpResponse extracts the concept groups from a limit-up payload.
func ParseLimitUpResponse(payload []byte) ([]ConceptGroup, error) {
	var envelope limitUpEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// NormalizeLimitUp merges concept groups into one record per stock in
// first-seen order. A stock appearing under several concepts keeps the stats
// of its first appearance and accumulates the concept labels.
func NormalizeLimitUp(groups []ConceptGroup, date string) []*model.LimitUpStock {
	var order []string
	byCode := map[string]*model.LimitUpStock{}
	labels := map[string][]string{}

	for _, group := range groups {
		for _, stock := range group.List {
			code := strings.TrimLeftFunc(stock.Code, func(r rune) bool {
				return !unicode.IsDigit(r)
			})
			if code == "" {
				continue
			}

			if _, ok := byCode[code]; ok {
				if !containsLabel(labels[code], group.Name) {
					labels[code] = append(labels[code], group.Name)
				}
				continue
			}

			var info ActionInfo
			if stock.Article != nil && stock.Article.ActionInfo != nil {
				info = *stock.Article.ActionInfo
			}

			days := int(info.Day)
			if days < 1 {
				days = 1
			}
			boards := int(info.Edition)
			if boards < 1 {
				boards = 1
			}
			daysBoards := string(info.Num)
			if daysBoards == "" {
				daysBoards = "首板"
			}

			byCode[code] = &model.LimitUpStock{
				Date:              date,
				Code:              code,
				Name:              stock.Name,
				ConsecutiveDays:   days,
				ConsecutiveBoards: boards,
				DaysBoards:        daysBoards,
				FirstLimitUpTime:  string(info.Time),
				LastLimitUpTime:   string(info.Time),
				Expound:           string(info.Expound),
			}
			labels[code] = []string{group.Name}
			order = append(order, code)
		}
	}

	stocks := make([]*model.LimitUpStock, 0, len(order))
	for _, code := range order {
		stock := byCode[code]
		stock.LimitUpType = truncateLabel(strings.Join(labels[code], "+"))
		stocks = append(stocks, stock)
	}
	return stocks
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// truncateLabel cuts an accumulated concept label to the column width,
// counting runes so multi-byte labels are not split.
func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= maxTypeLabelRunes {
		return label
	}
	return string(runes[:maxTypeLabelRunes-3]) + "..."
}
