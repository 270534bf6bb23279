package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite agrupa dos handles sobre el mismo archivo: las escrituras esperan el lock
// hasta busy_timeout, las lecturas usan el comportamiento por defecto del motor.
type SQLite struct {
	Reader *sql.DB
	Writer *sql.DB
}

// OpenSQLite abre (o crea) el archivo de base de datos en path.
func OpenSQLite(ctx context.Context, path string, writeTimeout time.Duration) (*SQLite, error) {
	path = strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory %s: %w", dir, err)
		}
	}

	reader, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open reader %s: %w", path, err)
	}
	writer, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, writeTimeout.Milliseconds()))
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("open writer %s: %w", path, err)
	}

	s := &SQLite{Reader: reader, Writer: writer}
	if err := writer.PingContext(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("ping db at %s: %w", path, err)
	}
	return s, nil
}

// Close cierra ambos handles.
func (s *SQLite) Close() error {
	rErr := s.Reader.Close()
	wErr := s.Writer.Close()
	if wErr != nil {
		return wErr
	}
	return rErr
}
