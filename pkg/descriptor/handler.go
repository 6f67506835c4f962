package descriptor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/atomicfile"
)

// errAttemptPending signals to backoff.Retry that a download attempt
// failed and should be retried on the next scheduled delay; it never
// escapes runTask.
var errAttemptPending = errors.New("descriptor attempt pending retry")

const (
	initialBackoff   = 15 * time.Second
	incrementBackoff = 15 * time.Second
	capBackoff       = 120 * time.Second
	downloadTimeout  = 60 * time.Second

	// blacklistSentinelURL and minURLLength implement the "no list"
	// sentinel rule: either one means the task's URL is cleared and
	// any existing file/state is removed.
	blacklistSentinelURL = "http://tobereplaced"
	minURLLength         = 9
)

// sidecarRecord records what was last successfully downloaded for a
// list file. It is held in memory only and is not written to disk, so
// it is empty after a restart.
type sidecarRecord struct {
	LastURL  string
	LastHash string
}

// task tracks one of the two descriptor files (allow-list or
// deny-list): its current URL, in-memory sidecar state, and whether a
// background retry loop is currently running for it.
type task struct {
	name     string
	filePath string

	mu      sync.Mutex
	url     string
	sidecar sidecarRecord
	cancel  context.CancelFunc
}

// Handler owns the allow-list and deny-list tasks, builds the merged
// Catalog after each successful download, and notifies the lifecycle
// orchestrator via the readyForDevices and descriptorsUpdated
// callbacks.
type Handler struct {
	fetcher URLFetcher
	dir     string

	allow task
	deny  task

	catalog atomic.Pointer[Catalog]

	readyOnce       sync.Once
	ReadyForDevices func()
	DescriptorsUpdated func()
}

// NewHandler returns a Handler rooted at dir, using fetcher as its
// transport collaborator. Callers should set ReadyForDevices and
// DescriptorsUpdated before calling SetAllowListURL/SetDenyListURL.
func NewHandler(dir string, fetcher URLFetcher) *Handler {
	h := &Handler{
		fetcher: fetcher,
		dir:     dir,
		allow:   task{name: "allowlist", filePath: dir + "/whitelist"},
		deny:    task{name: "blacklist", filePath: dir + "/blacklist"},
	}
	h.catalog.Store(NewEmptyCatalog())
	return h
}

// Catalog returns the current merged allow/deny catalog. Safe for
// concurrent use; a successful download swaps in a new Catalog value
// rather than mutating the existing one.
func (h *Handler) Catalog() *Catalog {
	return h.catalog.Load()
}

// SetAllowListURL assigns (or reassigns) the allow-list URL, cancelling
// any in-flight fetch for the task's previous URL and rearming its
// retry loop against the new one.
func (h *Handler) SetAllowListURL(ctx context.Context, url string) {
	h.setURL(ctx, &h.allow, url)
}

// SetDenyListURL assigns (or reassigns) the deny-list URL.
func (h *Handler) SetDenyListURL(ctx context.Context, url string) {
	h.setURL(ctx, &h.deny, url)
}

func isBlacklistSentinel(url string) bool {
	if len(url) < minURLLength {
		return true
	}
	return strings.EqualFold(url, blacklistSentinelURL)
}

func (h *Handler) setURL(ctx context.Context, t *task, url string) {
	t.mu.Lock()
	if t.cancel != nil {
		h.fetcher.Cancel(t.url)
		t.cancel()
		t.cancel = nil
	}
	t.url = url
	t.mu.Unlock()

	if isBlacklistSentinel(url) {
		h.clearTask(t)
		return
	}

	taskCtx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()
	go h.runTask(taskCtx, t, url)
}

// clearTask implements the blacklist-sentinel rule: delete the local
// file and reset the sidecar record so a stale list is never treated
// as current.
func (h *Handler) clearTask(t *task) {
	_ = os.Remove(t.filePath)
	t.mu.Lock()
	t.sidecar = sidecarRecord{}
	t.mu.Unlock()
	h.rebuildCatalog()
}

// runTask retries the download of url into t.filePath until it
// succeeds or ctx is cancelled (a newer SetXListURL call supersedes
// this goroutine), driven by backoff.Retry against the arithmetic
// initial/increment/cap schedule from the spec.
func (h *Handler) runTask(ctx context.Context, t *task, url string) {
	schedule := backoff.WithContext(newArithmeticBackOff(initialBackoff, incrementBackoff, capBackoff), ctx)

	_ = backoff.Retry(func() error {
		if h.attemptDownload(ctx, t, url) {
			return nil
		}
		return errAttemptPending
	}, schedule)
}

// needsUpdate implements the decision procedure from the spec: no
// persisted URL, no persisted hash, missing file, URL mismatch, or
// hash mismatch all mean the file must be (re)downloaded.
func needsUpdate(t *task, newURL string) bool {
	t.mu.Lock()
	sidecar := t.sidecar
	t.mu.Unlock()

	if sidecar.LastURL == "" || sidecar.LastHash == "" {
		return true
	}
	if _, err := os.Stat(t.filePath); err != nil {
		return true
	}
	if sidecar.LastURL != newURL {
		return true
	}
	currentHash, err := hashFile(t.filePath)
	if err != nil || currentHash != sidecar.LastHash {
		return true
	}
	return false
}

func (h *Handler) attemptDownload(ctx context.Context, t *task, url string) bool {
	if !needsUpdate(t, url) {
		return true
	}

	tmpPath := t.filePath + ".tmp"
	status, size, err := h.fetcher.Download(ctx, url, tmpPath, downloadTimeout)
	if err != nil {
		log.Warn().Err(err).Str("task", t.name).Str("url", url).Msg("descriptor download failed")
		_ = os.Remove(tmpPath)
		return false
	}
	if (status != 0 && status != 200) || size == 0 {
		log.Warn().Int("status", status).Int64("size", size).Str("task", t.name).Msg("descriptor download rejected")
		_ = os.Remove(tmpPath)
		return false
	}
	if err := validateDomain(t.name, tmpPath); err != nil {
		log.Warn().Err(err).Str("task", t.name).Msg("descriptor content failed validation")
		_ = os.Remove(tmpPath)
		return false
	}

	hash, err := hashFile(tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return false
	}
	if err := atomicfile.Rename(tmpPath, t.filePath); err != nil {
		log.Warn().Err(err).Str("task", t.name).Msg("descriptor atomic rename failed")
		_ = os.Remove(tmpPath)
		return false
	}

	h.onTaskSucceeded(t, url, hash)
	return true
}

func (h *Handler) onTaskSucceeded(t *task, url, hash string) {
	t.mu.Lock()
	t.sidecar = sidecarRecord{LastURL: url, LastHash: hash}
	t.mu.Unlock()

	h.rebuildCatalog()

	if t == &h.allow && h.ReadyForDevices != nil {
		h.readyOnce.Do(h.ReadyForDevices)
	}
	if h.DescriptorsUpdated != nil {
		h.DescriptorsUpdated()
	}
}

func (h *Handler) rebuildCatalog() {
	next := NewEmptyCatalog()

	if data, err := os.ReadFile(h.allow.filePath); err == nil {
		if entries, err := ParseAllowList(data); err == nil {
			next = next.WithAllowList(entries)
		}
	}
	if data, err := os.ReadFile(h.deny.filePath); err == nil {
		if entries, err := ParseDenyList(data); err == nil {
			next = next.WithDenyList(entries)
		}
	}
	h.catalog.Store(next)
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// validateDomain is the hook for content-specific validation (e.g.
// schema checks). Both list files are JSON arrays; a cheap structural
// parse is enough to reject garbage before it is promoted into place.
func validateDomain(taskName, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if taskName == "blacklist" {
		_, err := ParseDenyList(data)
		return err
	}
	_, err = ParseAllowList(data)
	return err
}
