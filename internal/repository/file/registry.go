// Package file stores the chat registry as a plain text file with one chat
// id per line. The file is append-only and has no header.
//
// Membership checks read the whole file. Record holds an in-process mutex and
// an exclusive lock file for the entire read-then-append sequence, so neither
// concurrent handlers nor a second bot process sharing the file can write the
// same id twice.
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"engeybot/internal/domain"
)

const (
	filePerm      = 0o644
	dirPerm       = 0o755
	lockRetryWait = 25 * time.Millisecond
)

// Registry implements repository.ChatRegistry on top of a text file
type Registry struct {
	path     string
	lockPath string
	mu       sync.Mutex
}

// NewRegistry creates a file registry. An empty lockPath defaults to path + ".lck".
func NewRegistry(path, lockPath string) *Registry {
	if lockPath == "" {
		lockPath = path + ".lck"
	}
	return &Registry{path: path, lockPath: lockPath}
}

// IsKnown reports whether chatID has a line in the store.
// A store that does not exist yet is empty.
func (r *Registry) IsKnown(ctx context.Context, chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, err := r.readLines()
	if err != nil {
		return false, err
	}
	return contains(lines, key(chatID)), nil
}

// Record appends chatID unless it is already present
func (r *Registry) Record(ctx context.Context, chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.lockPath), dirPerm); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	added := false
	err := withLockFile(ctx, r.lockPath, func() error {
		lines, err := r.readLines()
		if err != nil {
			return err
		}
		if contains(lines, key(chatID)) {
			return nil
		}
		if err := r.appendLine(key(chatID)); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return added, nil
}

// ListChatIDs returns every stored id in file order, skipping lines that are
// not integers and any duplicates left behind by an interrupted append
func (r *Registry) ListChatIDs(ctx context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, err := r.readLines()
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Registry) readLines() ([]string, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	return lines, nil
}

func (r *Registry) appendLine(line string) error {
	if err := os.MkdirAll(filepath.Dir(r.path), dirPerm); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: append %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	return nil
}

func waitForLock(ctx context.Context, lockPath string) error {
	timer := time.NewTimer(lockRetryWait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("lock %s: %w", lockPath, ctx.Err())
	case <-timer.C:
		return nil
	}
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func contains(lines []string, want string) bool {
	for _, line := range lines {
		if line == want {
			return true
		}
	}
	return false
}
