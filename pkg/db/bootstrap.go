package db

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"os"
)

// Bootstrap initializes the database with a default installation if
// it's empty. This is called after migrations and handles first-run
// setup, going through ProfileStore/APIServerStore like any other
// caller rather than duplicating their SQL inline.
func (db *DB) Bootstrap(ctx context.Context) error {
	needsBootstrap, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return err
	}
	if !needsBootstrap {
		return nil
	}

	profile := &Profile{
		Name:     "default",
		Timezone: detectTimezone(),
		IsActive: true,
	}
	if err := db.Profiles().Create(ctx, profile); err != nil {
		return fmt.Errorf("failed to create default installation: %w", err)
	}

	apiServer := &APIServer{
		ProfileID: profile.ID,
		Host:      "0.0.0.0",
		Port:      8080,
	}
	if err := db.APIServers().Create(ctx, apiServer); err != nil {
		return fmt.Errorf("failed to create default API server config: %w", err)
	}

	return nil
}

// detectTimezone attempts to detect the system timezone.
func detectTimezone() string {
	switch runtime.GOOS {
	case "darwin":
		// Try systemsetup first
		out, err := exec.Command("systemsetup", "-gettimezone").Output()
		if err == nil {
			parts := strings.SplitN(string(out), ": ", 2)
			if len(parts) == 2 {
				return strings.TrimSpace(parts[1])
			}
		}

		// Fallback: read /etc/localtime symlink
		if link, err := os.Readlink("/etc/localtime"); err == nil {
			if idx := strings.Index(link, "zoneinfo/"); idx != -1 {
				return link[idx+9:]
			}
		}

	case "linux":
		// Try timedatectl first (systemd)
		out, err := exec.Command("timedatectl", "show", "--property=Timezone", "--value").Output()
		if err == nil {
			return strings.TrimSpace(string(out))
		}

		// Fallback: /etc/timezone file
		if data, err := os.ReadFile("/etc/timezone"); err == nil {
			return strings.TrimSpace(string(data))
		}

		// Fallback: /etc/localtime symlink
		if link, err := os.Readlink("/etc/localtime"); err == nil {
			if idx := strings.Index(link, "zoneinfo/"); idx != -1 {
				return link[idx+9:]
			}
		}
	}

	return "UTC"
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
