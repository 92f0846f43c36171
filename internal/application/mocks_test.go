package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

var errDiskFull = errors.New("disk full")

// mockServerStore is an in-memory ServerStore with injectable failures.
type mockServerStore struct {
	servers   []model.StatisticsServer
	loadErr   error
	appendErr error
	removeErr error
	selectErr error
	loads     int

	// afterAppend runs once a server is stored, standing in for another writer.
	afterAppend func(m *mockServerStore)
}

func (m *mockServerStore) LoadAll(_ context.Context) ([]model.StatisticsServer, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]model.StatisticsServer, len(m.servers))
	copy(out, m.servers)
	return out, nil
}

func (m *mockServerStore) Append(_ context.Context, server model.StatisticsServer) (int, error) {
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	if err := server.Validate(); err != nil {
		return 0, err
	}
	m.servers = append(m.servers, server)
	index := len(m.servers) - 1
	if m.afterAppend != nil {
		m.afterAppend(m)
	}
	return index, nil
}

func (m *mockServerStore) RemoveAt(_ context.Context, index int) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	if index < 0 || index >= len(m.servers) {
		return fmt.Errorf("remove %d: %w", index, driven.ErrServerNotFound)
	}
	m.servers = append(m.servers[:index], m.servers[index+1:]...)
	return nil
}

func (m *mockServerStore) SelectAt(_ context.Context, index int) (model.StatisticsServer, error) {
	if m.selectErr != nil {
		return model.StatisticsServer{}, m.selectErr
	}
	if index < 0 || index >= len(m.servers) {
		return model.StatisticsServer{}, fmt.Errorf("select %d: %w", index, driven.ErrServerNotFound)
	}
	return m.servers[index], nil
}

type mockProber struct {
	result model.ProbeResult
	err    error
	gotURL string
}

func (m *mockProber) Probe(_ context.Context, webURL string) (model.ProbeResult, error) {
	m.gotURL = webURL
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoServers() []model.StatisticsServer {
	return []model.StatisticsServer{
		{Name: "Primary", WebURL: "https://a.example", DatabaseName: "db1", Username: "alice"},
		{Name: "Backup", WebURL: "https://b.example", DatabaseName: "db2", Username: "bob"},
	}
}
