package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/zhixing/auctionradar/internal/fetcher"
	"github.com/zhixing/auctionradar/internal/model"
	"github.com/zhixing/auctionradar/internal/repository"
	"github.com/zhixing/auctionradar/internal/source"
	"github.com/zhixing/auctionradar/internal/timeutil"
)

// tradableCode matches main board (00, 60), ChiNext (30) and STAR (68)
// codes; everything else in a secids list is dropped.
var tradableCode = regexp.MustCompile(`^(00|30|60|68)`)

// SyncService pulls the upstream feeds through the fetch executor and writes
// the normalized rows.
type SyncService struct {
	executor *fetcher.Executor
	auctions repository.AuctionRepository
	limitUps repository.LimitUpRepository
	indexes  repository.IndexRepository
	stocks   repository.StockRepository
	log      *logrus.Logger
}

func NewSyncService(
	executor *fetcher.Executor,
	auctions repository.AuctionRepository,
	limitUps repository.LimitUpRepository,
	indexes repository.IndexRepository,
	stocks repository.StockRepository,
	log *logrus.Logger,
) *SyncService {
	return &SyncService{
		executor: executor,
		auctions: auctions,
		limitUps: limitUps,
		indexes:  indexes,
		stocks:   stocks,
		log:      log,
	}
}

// SyncAuction fetches the full-market auction snapshot for every stock in
// the universe and stores it at the current record time.
func (s *SyncService) SyncAuction(ctx context.Context, date string) (int, error) {
	entries, err := s.stocks.All()
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("stock list is empty, capture a quote config first")
	}

	secids := make([]string, 0, len(entries))
	for _, entry := range entries {
		secids = append(secids, fmt.Sprintf("%d.%s", entry.Market, entry.Code))
	}

	overrides := map[string]any{
		"secids": strings.Join(secids, ","),
		"pz":     len(secids),
		"pn":     1,
	}

	payload, err := s.executor.ExecuteBulk(ctx, source.NameEastmoneyAuction, overrides)
	if err != nil {
		return 0, err
	}

	records, err := source.ParseQuoteResponse(payload, s.log)
	if err != nil {
		return 0, err
	}

	if date == "" {
		date = timeutil.Today()
	}
	recordTime := timeutil.AuctionRecordTime(time.Now())

	ticks := source.NormalizeAuction(records, date, recordTime)
	if err := s.auctions.ReplaceBatch(ticks); err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"date":  date,
		"time":  recordTime,
		"count": len(ticks),
	}).Info("auction snapshot stored")
	return len(ticks), nil
}

// SyncLimitUp fetches the limit-up pool for a date and replaces that date's
// rows. An empty date targets the session the feed currently publishes.
func (s *SyncService) SyncLimitUp(ctx context.Context, date string) (int, error) {
	if date == "" {
		date = timeutil.LimitUpSyncDate(time.Now())
	}

	payload, err := s.executor.ExecuteBulk(ctx, source.NameJiuyanLimitUp, map[string]any{"date": date})
	if err != nil {
		return 0, err
	}

	groups, err := source.ParseLimitUpResponse(payload)
	if err != nil {
		return 0, err
	}

	stocks := source.NormalizeLimitUp(groups, date)
	if err := s.limitUps.ReplaceForDate(date, stocks); err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{"date": date, "count": len(stocks)}).Info("limit-up pool stored")
	return len(stocks), nil
}

// SyncIndex fetches the tracked index quotes and upserts the snapshot at the
// current record time.
func (s *SyncService) SyncIndex(ctx context.Context) (int, error) {
	payload, err := s.executor.Execute(ctx, source.NameKaipanlaIndex, nil)
	if err != nil {
		return 0, err
	}

	records, err := source.ParseIndexResponse(payload)
	if err != nil {
		return 0, err
	}

	snaps := source.NormalizeIndex(records, timeutil.Today(), timeutil.AuctionRecordTime(time.Now()))
	if err := s.indexes.UpsertBatch(snaps); err != nil {
		return 0, err
	}
	return len(snaps), nil
}

// UpdateStockListFromSecids rebuilds the tradable universe from a captured
// secids parameter ("market.code" entries, comma-joined or listed).
func (s *SyncService) UpdateStockListFromSecids(secids []string) (int, error) {
	entries := make([]*model.StockListEntry, 0, len(secids))
	seen := map[string]bool{}

	for _, secid := range secids {
		_, code, found := strings.Cut(secid, ".")
		if !found || seen[code] {
			continue
		}
		if !tradableCode.MatchString(code) {
			continue
		}
		seen[code] = true

		market := 0
		if strings.HasPrefix(code, "6") {
			market = 1
		}
		entries = append(entries, &model.StockListEntry{Code: code, Market: market})
	}

	if len(entries) == 0 {
		return 0, fmt.Errorf("no tradable codes found in secids")
	}

	if err := s.stocks.ReplaceAll(entries); err != nil {
		return 0, err
	}
	s.log.WithField("count", len(entries)).Info("stock list replaced from secids")
	return len(entries), nil
}

// RefreshStockListFromDescriptor pulls the secids parameter out of a freshly
// captured quote request and rebuilds the universe from it. Returns 0
// without error when the capture carries no secids.
func (s *SyncService) RefreshStockListFromDescriptor(desc *model.RequestDescriptor) (int, error) {
	secids := secidsFromBody(desc.Body)
	if len(secids) == 0 {
		return 0, nil
	}
	return s.UpdateStockListFromSecids(secids)
}

func secidsFromBody(body any) []string {
	switch b := body.(type) {
	case map[string]any:
		switch v := b["secids"].(type) {
		case string:
			return splitSecids(v)
		case []any:
			var secids []string
			for _, item := range v {
				if s, ok := item.(string); ok {
					secids = append(secids, s)
				}
			}
			return secids
		}
	case string:
		if !strings.Contains(b, "secids=") {
			return nil
		}
		values, err := url.ParseQuery(b)
		if err != nil {
			return nil
		}
		return splitSecids(values.Get("secids"))
	}
	return nil
}

func splitSecids(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

// ImportLimitUpExcel patches consecutive-board counts for a date from an
// uploaded spreadsheet. The code and board-count columns are located by
// their header text.
func (s *SyncService) ImportLimitUpExcel(r io.Reader, date string) (int, error) {
	if date == "" {
		date = timeutil.Today()
	}

	book, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("workbook has no sheets")
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("workbook has no data rows")
	}

	codeCol, boardsCol := -1, -1
	for i, header := range rows[0] {
		switch {
		case strings.Contains(header, "股票代码"):
			codeCol = i
		case strings.Contains(header, "连续涨停天数"):
			boardsCol = i
		}
	}
	if codeCol < 0 || boardsCol < 0 {
		return 0, fmt.Errorf("missing 股票代码 or 连续涨停天数 column")
	}

	updated := 0
	for _, row := range rows[1:] {
		if codeCol >= len(row) || boardsCol >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[codeCol])
		if raw == "" || raw[0] < '0' || raw[0] > '9' {
			continue
		}
		code, _, _ := strings.Cut(raw, ".")

		boards, err := strconv.Atoi(strings.TrimSpace(row[boardsCol]))
		if err != nil {
			boards = 0
		}

		affected, err := s.limitUps.UpdateBoards(date, code, boards)
		if err != nil {
			return updated, err
		}
		updated += int(affected)
	}

	s.log.WithFields(logrus.Fields{"date": date, "count": updated}).Info("board counts patched from spreadsheet")
	return updated, nil
}
