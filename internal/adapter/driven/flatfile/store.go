// Package flatfile implements the ServerStore port on a plain text file holding
// one comma-separated statistics server per line.
package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ServerStore = (*Store)(nil)

// Store is the flat-file implementation of the ServerStore port.
// Every mutation rereads the file and rewrites it whole through a temp file and
// rename, so a crash mid-write leaves the previous content intact. The mutex only
// serializes callers within this process; other writers are not locked out.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore creates a Store backed by the file at path. The file is not touched
// until the first operation.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureFile creates an empty backing file, and its parent directory, if the
// file does not exist yet. An existing file is left untouched.
func (s *Store) EnsureFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", driven.ErrStoreIO, s.path, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", driven.ErrStoreIO, dir, err)
		}
	}
	if err := os.WriteFile(s.path, nil, 0o600); err != nil {
		return fmt.Errorf("%w: create %s: %w", driven.ErrStoreIO, s.path, err)
	}

	s.logger.Info("created statistics server file", "path", s.path)
	return nil
}

// LoadAll reads every server from the file in file order.
func (s *Store) LoadAll(ctx context.Context) ([]model.StatisticsServer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Append adds a server after the existing ones, rewrites the file and returns
// the new server's position.
func (s *Store) Append(ctx context.Context, server model.StatisticsServer) (int, error) {
	if err := server.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	servers, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	index := len(servers)
	servers = append(servers, server)
	if err := s.write(ctx, servers); err != nil {
		return 0, err
	}

	s.logger.Debug("statistics server appended", "name", server.Name, "index", index)
	return index, nil
}

// RemoveAt deletes the server at index and rewrites the file.
func (s *Store) RemoveAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	servers, err := s.load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(servers) {
		return fmt.Errorf("remove server at %d: %w", index, driven.ErrServerNotFound)
	}

	removed := servers[index]
	servers = append(servers[:index], servers[index+1:]...)
	if err := s.write(ctx, servers); err != nil {
		return err
	}

	s.logger.Debug("statistics server removed", "index", index, "name", removed.Name, "count", len(servers))
	return nil
}

// SelectAt returns the server at index.
func (s *Store) SelectAt(ctx context.Context, index int) (model.StatisticsServer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	servers, err := s.load(ctx)
	if err != nil {
		return model.StatisticsServer{}, err
	}
	if index < 0 || index >= len(servers) {
		return model.StatisticsServer{}, fmt.Errorf("select server at %d: %w", index, driven.ErrServerNotFound)
	}
	return servers[index], nil
}

// load reads and decodes the file. Callers must hold s.mu.
func (s *Store) load(ctx context.Context) ([]model.StatisticsServer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", driven.ErrStoreIO, s.path, err)
	}

	servers, err := decodeRecords(string(data))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return servers, nil
}

// write replaces the file content with the encoded servers. Callers must hold s.mu.
func (s *Store) write(ctx context.Context, servers []model.StatisticsServer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := atomic.WriteFile(s.path, strings.NewReader(encodeRecords(servers))); err != nil {
		return fmt.Errorf("%w: write %s: %w", driven.ErrStoreIO, s.path, err)
	}
	return nil
}
