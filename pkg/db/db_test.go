package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/db"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "gateway.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestMigrateIsIdempotent(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	version, err := d.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("expected schema version 1, got %d", version)
	}
}

func TestNeedsBootstrapBeforeAndAfter(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	needs, err := d.NeedsBootstrap(ctx)
	if err != nil {
		t.Fatalf("needs bootstrap: %v", err)
	}
	if !needs {
		t.Fatal("expected a freshly migrated database to need bootstrap")
	}

	if err := d.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	needs, err = d.NeedsBootstrap(ctx)
	if err != nil {
		t.Fatalf("needs bootstrap after: %v", err)
	}
	if needs {
		t.Error("expected bootstrap to be a one-time operation")
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := d.Bootstrap(ctx); err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}
	if err := d.Bootstrap(ctx); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	profiles, err := d.Profiles().Get(ctx, 1)
	if err != nil {
		t.Fatalf("get profile 1: %v", err)
	}
	if profiles.Name != "default" {
		t.Errorf("expected a single default installation, got %q", profiles.Name)
	}
}

func TestActiveConfigReflectsBootstrappedDefaults(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := d.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	cfg, err := d.ActiveConfig(ctx)
	if err != nil {
		t.Fatalf("active config: %v", err)
	}
	if cfg.Profile.Name != "default" {
		t.Errorf("expected default installation, got %q", cfg.Profile.Name)
	}
	if !cfg.Profile.IsActive {
		t.Error("expected default installation to be active")
	}
	if cfg.APIAddress() != "0.0.0.0:8080" {
		t.Errorf("expected default API address, got %q", cfg.APIAddress())
	}
}

func TestActiveConfigBeforeBootstrapIsNoActiveProfile(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()

	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, err := d.ActiveConfig(ctx); err != db.ErrNoActiveProfile {
		t.Errorf("expected ErrNoActiveProfile, got %v", err)
	}
}
