package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
	"Radon/pkg/util"
)

// ClickHouseBarStore implements BarStore for ClickHouse.
type ClickHouseBarStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseBarStore creates ClickHouse bar storage.
func NewClickHouseBarStore(db *sql.DB, table string) domrepo.BarStore {
	return &ClickHouseBarStore{db: db, table: table}
}

func (s *ClickHouseBarStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseBarStore) StoreBatch(ctx context.Context, bars []*models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, b := range bars[start:end] {
			if b == nil || b.Symbol == "" || b.Timestamp.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				b.Timestamp,
				b.Symbol,
				b.Interval,
				b.Open,
				b.High,
				b.Low,
				b.Close,
				b.Volume,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, interval, open, high, low, close, volume) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseBarStore) Query(ctx context.Context, symbol, interval string, from, to time.Time, limit int) ([]*models.Bar, error) {
	from, to = util.AlignFromTo(from, to, interval)
	q := fmt.Sprintf("SELECT ts, symbol, interval, open, high, low, close, volume FROM %s WHERE symbol = ? AND interval = ? AND ts >= ? AND ts <= ? ORDER BY ts ASC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, interval, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBars(rows)
}

func (s *ClickHouseBarStore) Latest(ctx context.Context, symbol, interval string, n int) ([]*models.Bar, error) {
	q := fmt.Sprintf("SELECT ts, symbol, interval, open, high, low, close, volume FROM %s WHERE symbol = ? AND interval = ? ORDER BY ts DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, interval, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bars, err := scanBars(rows)
	if err != nil {
		return nil, err
	}
	// reverse to ASC
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

func scanBars(rows *sql.Rows) ([]*models.Bar, error) {
	var bars []*models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Timestamp, &b.Symbol, &b.Interval, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, &b)
	}
	return bars, rows.Err()
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	return nil // Managed by pkg
}
