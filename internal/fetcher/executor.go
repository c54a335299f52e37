// Package fetcher replays captured upstream requests. It is the only place
// that talks HTTP to the data feeds; everything above it works with decoded
// JSON payloads.
package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/zhixing/auctionradar/internal/model"
	"github.com/zhixing/auctionradar/internal/repository"
)

const (
	// DefaultTimeout bounds interactive test fetches.
	DefaultTimeout = 10 * time.Second

	// BulkTimeout bounds scheduled full-market fetches.
	BulkTimeout = 30 * time.Second

	previewLimit = 100
)

// ErrNotConfigured is returned when no capture exists for a source name.
var ErrNotConfigured = errors.New("no request captured for source")

// UpstreamError describes a fetch whose response could not be used, either a
// non-200 status or a body that was not JSON.
type UpstreamError struct {
	Status  int
	Preview string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Preview)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ConfigStore is the part of the config repository the executor needs.
type ConfigStore interface {
	Get(name string) (*model.RequestDescriptor, error)
}

type Executor struct {
	store          ConfigStore
	limiter        *rate.Limiter
	defaultTimeout time.Duration
	bulkTimeout    time.Duration
	log            *logrus.Logger
}

// NewExecutor builds an executor. Non-positive timeouts fall back to the
// package defaults.
func NewExecutor(store ConfigStore, ratePerSecond float64, defaultTimeout, bulkTimeout time.Duration, log *logrus.Logger) *Executor {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	if bulkTimeout <= 0 {
		bulkTimeout = BulkTimeout
	}
	return &Executor{
		store:          store,
		limiter:        rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		defaultTimeout: defaultTimeout,
		bulkTimeout:    bulkTimeout,
		log:            log,
	}
}

// Execute replays the capture stored under name with optional body field
// overrides, bounded by the interactive timeout. It returns the raw JSON
// payload on a 200 response whose body is valid JSON, and an *UpstreamError
// otherwise.
func (e *Executor) Execute(ctx context.Context, name string, overrides map[string]any) (json.RawMessage, error) {
	return e.execute(ctx, name, overrides, e.defaultTimeout)
}

// ExecuteBulk is Execute with the longer full-market timeout.
func (e *Executor) ExecuteBulk(ctx context.Context, name string, overrides map[string]any) (json.RawMessage, error) {
	return e.execute(ctx, name, overrides, e.bulkTimeout)
}

func (e *Executor) execute(ctx context.Context, name string, overrides map[string]any, timeout time.Duration) (json.RawMessage, error) {
	desc, err := e.store.Get(name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotConfigured, name)
		}
		return nil, err
	}

	body := desc.Body
	if len(overrides) > 0 {
		if base, ok := body.(map[string]any); ok {
			merged := make(map[string]any, len(base)+len(overrides))
			maps.Copy(merged, base)
			maps.Copy(merged, overrides)
			body = merged
		} else {
			e.log.WithField("source", name).Warn("overrides ignored, captured body is not a JSON object")
		}
	}

	req, err := buildRequest(ctx, desc, body)
	if err != nil {
		return nil, err
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: timeout}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK || !json.Valid(payload) {
		return nil, &UpstreamError{Status: resp.StatusCode, Preview: preview(payload)}
	}

	return json.RawMessage(payload), nil
}

func buildRequest(ctx context.Context, desc *model.RequestDescriptor, body any) (*http.Request, error) {
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, desc.URL, reader)
	if err != nil {
		return nil, err
	}

	for key, value := range desc.Headers {
		canonical := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(key))
		// Stale captured values here break replay; the transport sets its own.
		if canonical == "Content-Length" || canonical == "Host" {
			continue
		}
		req.Header.Set(canonical, sanitize(value))
	}

	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

var headerLineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// sanitize collapses each line break to a single space so a pasted header
// cannot split the request.
func sanitize(value string) string {
	return strings.TrimSpace(headerLineBreaks.Replace(value))
}

func preview(payload []byte) string {
	text := strings.TrimSpace(string(payload))
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}
