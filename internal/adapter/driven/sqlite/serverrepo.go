package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ServerStore = (*ServerRepo)(nil)

// ServerRepo is the SQLite implementation of the ServerStore port interface.
// A server's position is its rank in insertion order.
type ServerRepo struct {
	db *DB
}

// NewServerRepo creates a new ServerRepo backed by the given DB.
func NewServerRepo(db *DB) *ServerRepo {
	return &ServerRepo{db: db}
}

// LoadAll returns all statistics servers in insertion order.
func (r *ServerRepo) LoadAll(ctx context.Context) ([]model.StatisticsServer, error) {
	const query = `SELECT name, web_url, database_name, username FROM statistics_servers ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list statistics servers: %w", driven.ErrStoreIO, err)
	}
	defer rows.Close()

	servers := []model.StatisticsServer{}
	for rows.Next() {
		var s model.StatisticsServer
		if err := rows.Scan(&s.Name, &s.WebURL, &s.DatabaseName, &s.Username); err != nil {
			return nil, fmt.Errorf("%w: scan statistics server: %w", driven.ErrStoreIO, err)
		}
		servers = append(servers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate statistics servers: %w", driven.ErrStoreIO, err)
	}

	return servers, nil
}

// Append inserts a server after all existing ones and returns its position.
// AUTOINCREMENT ids only grow, so the new row is last within the transaction.
func (r *ServerRepo) Append(ctx context.Context, server model.StatisticsServer) (int, error) {
	if err := server.Validate(); err != nil {
		return 0, err
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin append: %w", driven.ErrStoreIO, err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertQuery = `INSERT INTO statistics_servers (name, web_url, database_name, username) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertQuery, server.Name, server.WebURL, server.DatabaseName, server.Username); err != nil {
		return 0, fmt.Errorf("%w: append statistics server %q: %w", driven.ErrStoreIO, server.Name, err)
	}

	var count int
	const countQuery = `SELECT COUNT(*) FROM statistics_servers`
	if err := tx.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count statistics servers: %w", driven.ErrStoreIO, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit append: %w", driven.ErrStoreIO, err)
	}
	return count - 1, nil
}

// RemoveAt deletes the server at the given position.
func (r *ServerRepo) RemoveAt(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("remove server at %d: %w", index, driven.ErrServerNotFound)
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin remove: %w", driven.ErrStoreIO, err)
	}
	defer func() { _ = tx.Rollback() }()

	const selectQuery = `SELECT id FROM statistics_servers ORDER BY id LIMIT 1 OFFSET ?`
	var id int64
	err = tx.QueryRowContext(ctx, selectQuery, index).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("remove server at %d: %w", index, driven.ErrServerNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: locate server at %d: %w", driven.ErrStoreIO, index, err)
	}

	const deleteQuery = `DELETE FROM statistics_servers WHERE id = ?`
	if _, err := tx.ExecContext(ctx, deleteQuery, id); err != nil {
		return fmt.Errorf("%w: remove server at %d: %w", driven.ErrStoreIO, index, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit remove: %w", driven.ErrStoreIO, err)
	}
	return nil
}

// SelectAt returns the server at the given position.
func (r *ServerRepo) SelectAt(ctx context.Context, index int) (model.StatisticsServer, error) {
	if index < 0 {
		return model.StatisticsServer{}, fmt.Errorf("select server at %d: %w", index, driven.ErrServerNotFound)
	}

	const query = `SELECT name, web_url, database_name, username FROM statistics_servers ORDER BY id LIMIT 1 OFFSET ?`
	var s model.StatisticsServer
	err := r.db.Reader.QueryRowContext(ctx, query, index).Scan(&s.Name, &s.WebURL, &s.DatabaseName, &s.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StatisticsServer{}, fmt.Errorf("select server at %d: %w", index, driven.ErrServerNotFound)
	}
	if err != nil {
		return model.StatisticsServer{}, fmt.Errorf("%w: select server at %d: %w", driven.ErrStoreIO, index, err)
	}
	return s, nil
}

// ImportFrom copies every server from src into an empty table, preserving order.
// It returns the number of imported servers; a non-empty table is left alone and
// reports zero.
func (r *ServerRepo) ImportFrom(ctx context.Context, src driven.ServerStore) (int, error) {
	var count int
	const countQuery = `SELECT COUNT(*) FROM statistics_servers`
	if err := r.db.Reader.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count statistics servers: %w", driven.ErrStoreIO, err)
	}
	if count > 0 {
		return 0, nil
	}

	servers, err := src.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("import statistics servers: %w", err)
	}
	if len(servers) == 0 {
		return 0, nil
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin import: %w", driven.ErrStoreIO, err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertQuery = `INSERT INTO statistics_servers (name, web_url, database_name, username) VALUES (?, ?, ?, ?)`
	for _, s := range servers {
		if _, err := tx.ExecContext(ctx, insertQuery, s.Name, s.WebURL, s.DatabaseName, s.Username); err != nil {
			return 0, fmt.Errorf("%w: import statistics server %q: %w", driven.ErrStoreIO, s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit import: %w", driven.ErrStoreIO, err)
	}
	return len(servers), nil
}
