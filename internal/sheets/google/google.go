package google

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"daytrack/internal/core"
	applog "daytrack/internal/log"
)

// Header is the first row of the export sheet.
var Header = []any{"Week Start", "Week End", "Total Minutes", "Total", "Avg Minutes/Day", "Top Category", "Active Days"}

const exportAttempts = 3

// Options configures the exporter. One of the credential sources is required.
type Options struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
	// ApplicationCredFile is the GOOGLE_APPLICATION_CREDENTIALS fallback.
	ApplicationCredFile string
}

// Exporter appends weekly snapshots to a Google Sheet.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *applog.Logger
}

// New creates an exporter authenticated with service account credentials.
func New(ctx context.Context, opts Options, logger *applog.Logger) (*Exporter, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	credentialsJSON, err := credentials(opts)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
		goption.WithHTTPClient(newHTTPClientWithPooling()))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, opts.SpreadsheetID, opts.SheetName, logger), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string, logger *applog.Logger) *Exporter {
	if sheetName == "" {
		sheetName = "Weekly"
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(applog.ComponentSheets),
	}
}

func credentials(opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.ServiceAccountJSON)
	file := strings.TrimSpace(opts.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(opts.ApplicationCredFile)
	}
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// newHTTPClientWithPooling creates an HTTP client with connection pooling
// and bounded timeouts for the Sheets API.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: 60 * time.Second}
}

// SnapshotRow renders one snapshot as sheet cells, in Header order.
func SnapshotRow(s core.WeekSnapshot) []any {
	top := s.TopCategoryName
	if top == "" {
		top = "-"
	}
	return []any{
		s.WeekStart.String(),
		s.WeekEnd.String(),
		s.TotalMinutes,
		core.FormatDuration(s.TotalMinutes),
		s.AvgMinutesPerDay,
		top,
		s.DaysWithActivities,
	}
}

// ExportWeek appends the snapshot as a new row. Transient API failures are
// retried with jittered backoff.
func (e *Exporter) ExportWeek(ctx context.Context, s core.WeekSnapshot) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:G", e.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{SnapshotRow(s)}}

	err := retry.Do(
		func() error {
			_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
				ValueInputOption("USER_ENTERED").
				InsertDataOption("INSERT_ROWS").
				Context(ctx).Do()
			return err
		},
		retry.Context(ctx),
		retry.Attempts(exportAttempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			e.logger.WarnContext(ctx, "Retrying sheet export", "attempt", n+1, applog.FieldError, err.Error())
		}),
	)
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", e.sheetName, err)
	}
	e.logger.InfoContext(ctx, "Week exported to sheet",
		applog.FieldWeekStart, s.WeekStart.String(),
		applog.FieldOperation, applog.OpExport)
	return nil
}

// EnsureHeader writes Header into the first row when the sheet is empty.
func (e *Exporter) EnsureHeader(ctx context.Context) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1:G1", e.sheetName)
	resp, err := e.svc.Spreadsheets.Values.Get(e.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", e.sheetName, err)
	}
	if len(resp.Values) > 0 {
		return nil
	}
	_, err = e.svc.Spreadsheets.Values.Update(e.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{Header}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header of %s: %w", e.sheetName, err)
	}
	return nil
}
