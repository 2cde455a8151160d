package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
	"go.uber.org/zap"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
)

const defaultTimeout = 10 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS playlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	location TEXT NOT NULL UNIQUE,
	uid TEXT NOT NULL,
	name TEXT NOT NULL,
	current_index INTEGER NOT NULL DEFAULT 0,
	shuffle INTEGER NOT NULL DEFAULT 0,
	repeat INTEGER NOT NULL DEFAULT 0,
	shuffle_order TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE TABLE IF NOT EXISTS playlist_tracks (
	playlist_id INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	path TEXT NOT NULL,
	title TEXT NOT NULL,
	artist TEXT NOT NULL,
	album TEXT NOT NULL DEFAULT '',
	genre TEXT NOT NULL DEFAULT '',
	year INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	size INTEGER NOT NULL DEFAULT 0,
	format TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (playlist_id, position)
);

CREATE INDEX IF NOT EXISTS idx_playlist_tracks_path ON playlist_tracks(path);
`

// SQLiteStore keeps all playlists in one SQLite database. Locations are
// playlist names.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	log    *zap.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// one writer is all a CLI needs, and it keeps SQLite from reporting busy
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database after initialization failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	log.Debug("opened playlist database", zap.String("path", dbPath))
	return &SQLiteStore{db: db, dbPath: dbPath, log: log}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Extension returns the database file extension.
func (s *SQLiteStore) Extension() string {
	return ".db"
}

// IsValidFormat reports whether location can name a playlist.
func (s *SQLiteStore) IsValidFormat(location string) bool {
	return strings.TrimSpace(location) != ""
}

func encodeOrder(order []int) string {
	parts := make([]string, len(order))
	for i, idx := range order {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

func decodeOrder(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	order := make([]int, len(parts))
	for i, p := range parts {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid shuffle order: %w", err)
		}
		order[i] = idx
	}
	return order, nil
}

// Save replaces the playlist stored at location in a single transaction.
func (s *SQLiteStore) Save(pl *playlist.Playlist, location string) (err error) {
	if !s.IsValidFormat(location) {
		return fmt.Errorf("location %q: %w", location, crerrors.ErrInvalidName)
	}
	st := pl.Snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM playlists WHERE location = ?`, location); err != nil {
		return fmt.Errorf("failed to replace playlist: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO playlists (location, uid, name, current_index, shuffle, repeat, shuffle_order, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		location, st.ID, st.Name, st.CurrentIndex, st.Shuffle, st.Repeat,
		encodeOrder(st.ShuffleOrder), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read playlist id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO playlist_tracks
			(playlist_id, position, path, title, artist, album, genre, year, duration_ms, size, format)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for pos, t := range st.Tracks {
		if _, err = stmt.ExecContext(ctx, id, pos, t.Path, t.Title, t.Artist, t.Album, t.Genre,
			t.Year, t.Duration.Milliseconds(), t.Size, string(t.Format)); err != nil {
			return fmt.Errorf("failed to insert track %d: %w", pos, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}

	s.log.Debug("saved playlist", zap.String("location", location), zap.Int("tracks", len(st.Tracks)))
	return nil
}

// Load reads the playlist stored at location. It returns nil, nil if there
// is none.
func (s *SQLiteStore) Load(location string) (*playlist.Playlist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var (
		id       int64
		st       playlist.State
		rawOrder string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, uid, name, current_index, shuffle, repeat, shuffle_order
		FROM playlists WHERE location = ?`, location).
		Scan(&id, &st.ID, &st.Name, &st.CurrentIndex, &st.Shuffle, &st.Repeat, &rawOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist: %w", err)
	}

	if st.ShuffleOrder, err = decodeOrder(rawOrder); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, title, artist, album, genre, year, duration_ms, size, format
		FROM playlist_tracks WHERE playlist_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t          core.Track
			durationMs int64
			format     string
		)
		if err := rows.Scan(&t.Path, &t.Title, &t.Artist, &t.Album, &t.Genre,
			&t.Year, &durationMs, &t.Size, &format); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		t.Duration = time.Duration(durationMs) * time.Millisecond
		t.Format = core.Format(format)
		st.Tracks = append(st.Tracks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracks: %w", err)
	}

	return playlist.FromState(st)
}

// Delete removes the playlist stored at location.
func (s *SQLiteStore) Delete(location string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE location = ?`, location)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", crerrors.ErrPlaylistNotFound, location)
	}
	s.log.Debug("deleted playlist", zap.String("location", location))
	return nil
}

// List returns the stored playlist locations in sorted order.
func (s *SQLiteStore) List() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT location FROM playlists ORDER BY location`)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
