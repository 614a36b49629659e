// Package document owns the planning document on disk. A Store serializes
// every read-modify-write cycle in the process and replaces the file
// atomically, keeping rolling backups of earlier content.
package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/alexanderramin/mdplan/internal/markdown"
)

// Store is the single writer of one document.
type Store struct {
	path       string
	backupDir  string
	maxBackups int
	logger     *slog.Logger
	now        func() time.Time

	mu         sync.Mutex
	lastBackup string
}

// Option configures a Store.
type Option func(*Store)

// WithBackups keeps up to keep copies of replaced content in dir. A keep of
// zero disables backups.
func WithBackups(dir string, keep int) Option {
	return func(s *Store) {
		s.backupDir = dir
		s.maxBackups = keep
	}
}

// WithLogger sets the logger for backup and write diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for backup names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns a Store for the document at path. The file does not need
// to exist yet.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the document path.
func (s *Store) Path() string { return s.path }

// Read returns the document lines. A missing document reads as empty.
func (s *Store) Read(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	content, err := s.load()
	if err != nil {
		return nil, err
	}
	return markdown.SplitLines(content), nil
}

// Update runs fn on the current lines under the store lock and writes the
// result. When fn returns an error or leaves the content unchanged, nothing
// is written.
func (s *Store) Update(ctx context.Context, fn func(lines []string) ([]string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.load()
	if err != nil {
		return err
	}
	lines, err := fn(markdown.SplitLines(before))
	if err != nil {
		return err
	}
	after := markdown.JoinLines(lines)
	if after == before {
		return nil
	}
	return s.write(before, after)
}

// Write replaces the whole document.
func (s *Store) Write(ctx context.Context, content string) error {
	return s.Update(ctx, func([]string) ([]string, error) {
		return markdown.SplitLines(content), nil
	})
}

func (s *Store) load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(data), nil
}

func (s *Store) write(previous, content string) error {
	if previous != "" {
		s.backup(previous)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating document directory: %w", err)
		}
	}
	if err := atomic.WriteFile(s.path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// ContentHash returns the hex SHA-256 of content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// backup copies previous into the backup directory unless the same content
// was already backed up. Failures are logged and never block the write.
func (s *Store) backup(previous string) {
	if s.maxBackups <= 0 || s.backupDir == "" {
		return
	}
	hash := ContentHash(previous)
	if hash == s.lastBackup {
		return
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		s.logger.Warn("backup dir unavailable", "dir", s.backupDir, "error", err)
		return
	}
	base := s.backupBase()
	stamp := s.now().UTC().Format("2006-01-02T15-04-05.000Z")
	name := filepath.Join(s.backupDir, base+"_backup_"+stamp+".md")
	if err := os.WriteFile(name, []byte(previous), 0o644); err != nil {
		s.logger.Warn("backup failed", "path", name, "error", err)
		return
	}
	s.lastBackup = hash
	s.logger.Debug("backup written", "path", name)
	s.prune(base)
}

func (s *Store) backupBase() string {
	return strings.TrimSuffix(filepath.Base(s.path), ".md")
}

// Backups lists backup files of this document, oldest first.
func (s *Store) Backups() ([]string, error) {
	if s.backupDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.backupDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	prefix := s.backupBase() + "_backup_"
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, filepath.Join(s.backupDir, e.Name()))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) prune(base string) {
	names, err := s.Backups()
	if err != nil {
		s.logger.Warn("listing backups failed", "error", err)
		return
	}
	for len(names) > s.maxBackups {
		if err := os.Remove(names[0]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("removing backup failed", "path", names[0], "error", err)
		} else {
			s.logger.Debug("backup pruned", "path", names[0], "base", base)
		}
		names = names[1:]
	}
}
