package source

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func group(name string, stocks ...ConceptStock) ConceptGroup {
	return ConceptGroup{Name: name, List: stocks}
}

func stockWith(code, name string, info *ActionInfo) ConceptStock {
	s := ConceptStock{Code: code, Name: name}
	if info != nil {
		s.Article = &struct {
			ActionInfo *ActionInfo `json:"action_info"`
		}{ActionInfo: info}
	}
	return s
}

func TestNormalizeLimitUpMergesConcepts(t *testing.T) {
	groups := []ConceptGroup{
		group("华为概念",
			stockWith("sz001896", "豫能控股", &ActionInfo{Day: 3, Edition: 2, Num: "3天2板", Time: "09:25:00"}),
		),
		group("电力",
			stockWith("sz001896", "豫能控股", &ActionInfo{Day: 9, Edition: 9}),
			stockWith("sh600111", "北方稀土", nil),
		),
		group("华为概念",
			stockWith("sz001896", "豫能控股", nil),
		),
	}

	stocks := NormalizeLimitUp(groups, "2026-03-02")
	if len(stocks) != 2 {
		t.Fatalf("got %d stocks, want 2", len(stocks))
	}

	first := stocks[0]
	if first.Code != "001896" {
		t.Errorf("Code = %v, want market prefix stripped", first.Code)
	}
	if first.LimitUpType != "华为概念+电力" {
		t.Errorf("LimitUpType = %v, want deduped join", first.LimitUpType)
	}
	if first.ConsecutiveDays != 3 || first.ConsecutiveBoards != 2 {
		t.Errorf("stats = %d/%d, want first appearance kept", first.ConsecutiveDays, first.ConsecutiveBoards)
	}
	if first.DaysBoards != "3天2板" || first.FirstLimitUpTime != "09:25:00" {
		t.Errorf("record = %+v", first)
	}

	second := stocks[1]
	if second.Code != "600111" {
		t.Errorf("Code = %v", second.Code)
	}
	if second.ConsecutiveDays != 1 || second.ConsecutiveBoards != 1 || second.DaysBoards != "首板" {
		t.Errorf("missing action info defaults wrong: %+v", second)
	}
}

func TestNormalizeLimitUpTruncatesLabel(t *testing.T) {
	longName := strings.Repeat("概", 30)
	groups := []ConceptGroup{
		group(longName, stockWith("sz000001", "甲", nil)),
		group(longName+"二", stockWith("sz000001", "甲", nil)),
	}

	stocks := NormalizeLimitUp(groups, "2026-03-02")
	label := stocks[0].LimitUpType
	if utf8.RuneCountInString(label) != 50 {
		t.Errorf("label runes = %d, want 50", utf8.RuneCountInString(label))
	}
	if !strings.HasSuffix(label, "...") {
		t.Errorf("label = %v, want ellipsis suffix", label)
	}
}

func TestNormalizeLimitUpSkipsEmptyCodes(t *testing.T) {
	groups := []ConceptGroup{group("概念", stockWith("sz", "无码", nil))}
	if stocks := NormalizeLimitUp(groups, "2026-03-02"); len(stocks) != 0 {
		t.Errorf("got %d stocks, want 0", len(stocks))
	}
}
