package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/couchcryptid/solar-lookup/internal/common"
	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

// maxPayloadBytes caps how much of a dataset body is read.
const maxPayloadBytes = 64 << 20

// Loader fetches a spreadsheet and builds the lookup table from it.
type Loader struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewLoader creates a loader whose HTTP fetches time out after timeout.
func NewLoader(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		httpClient: common.HTTPClient(timeout),
		logger:     logger,
		metrics:    metrics,
	}
}

// Load reads source, which may be an HTTP(S) URL, a Google Sheets link, a
// file:// URL or a local path, and returns the resulting table.
func (l *Loader) Load(ctx context.Context, source string) (*domain.Table, error) {
	var (
		name string
		data []byte
		err  error
	)
	if isRemote(source) {
		name, data, err = l.fetch(ctx, ExportURL(source))
	} else {
		name = localPath(source)
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, l.fail(&LoadError{Stage: StageFetch, Source: source, Err: err})
	}

	return l.load(source, name, data)
}

// LoadFrom builds a table from an already opened payload. name is used as a
// format hint, for example "installations.xlsx".
func (l *Loader) LoadFrom(name string, r io.Reader) (*domain.Table, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes))
	if err != nil {
		return nil, l.fail(&LoadError{Stage: StageFetch, Source: name, Err: err})
	}
	return l.load(name, name, data)
}

func (l *Loader) load(source, name string, data []byte) (*domain.Table, error) {
	rows, err := decodeRows(name, data)
	if err != nil {
		return nil, l.fail(&LoadError{Stage: StageDecode, Source: source, Err: err})
	}
	if len(rows) == 0 {
		return nil, l.fail(&LoadError{Stage: StageHeader, Source: source, Err: errors.New("no header row")})
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, l.fail(&LoadError{Stage: StageHeader, Source: source, Err: err})
	}

	records := make([]domain.InstallationRecord, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		r, ok := cols.buildRecord(row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, r)
	}

	table := domain.NewTable(records)
	l.metrics.DatasetRecords.Set(float64(table.Len()))
	l.logger.Info("dataset loaded",
		"source", source,
		"rows", len(rows)-1,
		"records", table.Len(),
		"skipped", skipped,
	)
	return table, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", nil, fmt.Errorf("dataset host returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return "", nil, fmt.Errorf("read dataset body: %w", err)
	}
	return formatHint(rawURL, resp.Header.Get("Content-Type")), data, nil
}

// formatHint derives a file name whose extension reflects the payload type.
func formatHint(rawURL, contentType string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
		if u.Query().Get("format") == "xlsx" {
			return name + ".xlsx"
		}
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if mediaType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
			return name + ".xlsx"
		}
	}
	return name
}

func (l *Loader) fail(err *LoadError) error {
	l.metrics.DatasetLoadErrors.Inc()
	l.logger.Error("dataset load failed", "source", err.Source, "stage", err.Stage, "error", err.Err)
	return err
}
