package cli

import (
	"context"
	"testing"

	"daytrack/internal/config"
	applog "daytrack/internal/log"
)

func TestOpenStoreMemory(t *testing.T) {
	cfg := config.Load()
	cfg.DataBackend = config.BackendMemory
	cfg.DataDir = t.TempDir()

	res, err := OpenStore(context.Background(), applog.NewDiscard(), cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer res.Close()

	cats, err := res.Store.ListCategories(context.Background())
	if err != nil || len(cats) == 0 {
		t.Fatalf("expected seeded categories, got %v %v", cats, err)
	}
}

func TestOpenStoreRejectsUnknownBackend(t *testing.T) {
	cfg := config.Load()
	cfg.DataBackend = "postgres"
	if _, err := OpenStore(context.Background(), applog.NewDiscard(), cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestToday(t *testing.T) {
	cfg := config.Load()
	cfg.Timezone = "Europe/Rome"
	today, err := Today(cfg)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if today().IsZero() {
		t.Fatal("zero date")
	}

	cfg.Timezone = "Mars/Olympus"
	if _, err := Today(cfg); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestNewSheetsExporterDisabled(t *testing.T) {
	cfg := config.Load()
	cfg.GoogleSpreadsheetID = ""
	exp, err := NewSheetsExporter(context.Background(), applog.NewDiscard(), cfg)
	if err != nil || exp != nil {
		t.Fatalf("expected nil exporter, got %v %v", exp, err)
	}
}
