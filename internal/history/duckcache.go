package history

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/marcboeker/go-duckdb"

	"github.com/dataclean-pro/gateway/internal/models"
)

// DuckCache persists the history cache in an embedded DuckDB file so a
// restarted gateway can show history before the first remote fetch, and
// so summary aggregates stay in SQL.
type DuckCache struct {
	db   *sql.DB
	path string
}

// NewDuckCache opens (or creates) the cache database at dbPath.
func NewDuckCache(dbPath string) (*DuckCache, error) {
	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
		}
		for _, p := range pragmas {
			if _, err := execer.ExecContext(context.Background(), p, nil); err != nil {
				return fmt.Errorf("pragma failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create duckdb connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id BIGINT PRIMARY KEY,
			filename VARCHAR NOT NULL,
			upload_date TIMESTAMP NOT NULL,
			status VARCHAR NOT NULL,
			original_rows INTEGER NOT NULL,
			cleaned_rows INTEGER NOT NULL,
			processing_time_seconds DOUBLE NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	fmt.Printf("[HistoryCache] opened %s\n", dbPath)
	return &DuckCache{db: db, path: dbPath}, nil
}

// ReplaceAll drops the cached rows and appends the new snapshot in one
// batch via the DuckDB appender.
func (c *DuckCache) ReplaceAll(records []models.HistoryRecord) error {
	if _, err := c.db.Exec("DELETE FROM history"); err != nil {
		return fmt.Errorf("failed to clear history cache: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	conn, err := c.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("not a duckdb connection")
		}

		appender, err := duckdb.NewAppenderFromConn(dConn, "", "history")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer appender.Close()

		for _, rec := range records {
			err := appender.AppendRow(
				rec.ID,
				rec.Filename,
				rec.UploadDate,
				string(rec.Status),
				int32(rec.Summary.OriginalRows),
				int32(rec.Summary.CleanedRows),
				rec.Summary.ProcessingTimeSeconds,
			)
			if err != nil {
				return fmt.Errorf("failed to append row: %w", err)
			}
		}

		return appender.Flush()
	})
}

// Delete removes one cached record.
func (c *DuckCache) Delete(id int64) error {
	_, err := c.db.Exec("DELETE FROM history WHERE id = ?", id)
	return err
}

// Load reads the cached snapshot, newest first.
func (c *DuckCache) Load() ([]models.HistoryRecord, error) {
	rows, err := c.db.Query(`
		SELECT id, filename, upload_date, status,
		       original_rows, cleaned_rows, processing_time_seconds
		FROM history
		ORDER BY upload_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history cache: %w", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var (
			rec      models.HistoryRecord
			uploaded time.Time
			status   string
		)
		err := rows.Scan(
			&rec.ID, &rec.Filename, &uploaded, &status,
			&rec.Summary.OriginalRows, &rec.Summary.CleanedRows,
			&rec.Summary.ProcessingTimeSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.UploadDate = uploaded
		rec.Status = models.HistoryStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Summary computes the aggregate counters in SQL.
func (c *DuckCache) Summary() (Summary, error) {
	var s Summary
	err := c.db.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COALESCE(SUM(original_rows), 0),
			COALESCE(SUM(cleaned_rows), 0)
		FROM history
	`).Scan(&s.Completed, &s.Processing, &s.Failed, &s.TotalRows, &s.CleanedRows)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute history summary: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (c *DuckCache) Close() error {
	return c.db.Close()
}
