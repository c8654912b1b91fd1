package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
	pkgch "Radon/pkg/clickhouse"
	applogger "Radon/pkg/logger"
)

// CHSignalStore implements SignalStore backed by ClickHouse.
type CHSignalStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSignalStore(ch *pkgch.Client, table string) *CHSignalStore {
	if table == "" {
		table = "radon.signals"
	}
	return &CHSignalStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSignalStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSignalStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *CHSignalStore) Store(ctx context.Context, ev *models.SignalEvent) error {
	return s.StoreBatch(ctx, []*models.SignalEvent{ev})
}

func (s *CHSignalStore) StoreBatch(ctx context.Context, evs []*models.SignalEvent) error {
	if len(evs) == 0 {
		return nil
	}
	start := time.Now()
	values := make([]string, 0, len(evs))
	args := make([]interface{}, 0, len(evs)*10)
	for _, ev := range evs {
		if ev == nil || ev.Symbol == "" || ev.Timestamp.IsZero() {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			ev.ID,
			ev.Symbol,
			ev.Interval,
			ev.Timestamp,
			ev.Label,
			ev.Profile,
			ev.Price,
			ev.Osc,
			ev.RSI,
			ev.MACD,
		)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (id, symbol, interval, ts, label, profile, price, osc, rsi, macd) VALUES %s", s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_signals error",
				applogger.Int("count", len(values)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store signals: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse store_signals ok",
			applogger.Int("count", len(values)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSignalStore) BySymbol(ctx context.Context, symbol, interval string, limit int) ([]*models.SignalEvent, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT id, symbol, interval, ts, label, profile, price, osc, rsi, macd
        FROM %s
        WHERE symbol = ? AND interval = ?
        ORDER BY ts DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, interval, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse signals_by_symbol query error",
				applogger.String("symbol", symbol),
				applogger.String("interval", interval),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("signals by symbol: %w", err)
	}
	defer rows.Close()

	evs, err := s.scanSignals(rows)
	if err != nil {
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse signals_by_symbol ok",
			applogger.String("symbol", symbol),
			applogger.String("interval", interval),
			applogger.Int("rows", len(evs)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return evs, nil
}

func (s *CHSignalStore) Recent(ctx context.Context, limit int) ([]*models.SignalEvent, error) {
	q := fmt.Sprintf(`
        SELECT id, symbol, interval, ts, label, profile, price, osc, rsi, macd
        FROM %s
        ORDER BY ts DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse recent_signals query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("recent signals: %w", err)
	}
	defer rows.Close()
	return s.scanSignals(rows)
}

func (s *CHSignalStore) scanSignals(rows *sql.Rows) ([]*models.SignalEvent, error) {
	var evs []*models.SignalEvent
	for rows.Next() {
		var ev models.SignalEvent
		if err := rows.Scan(&ev.ID, &ev.Symbol, &ev.Interval, &ev.Timestamp, &ev.Label, &ev.Profile, &ev.Price, &ev.Osc, &ev.RSI, &ev.MACD); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse signal scan error", applogger.Error(err))
			}
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		evs = append(evs, &ev)
	}
	return evs, rows.Err()
}

func (s *CHSignalStore) Close() error {
	return nil // Managed by pkg
}

var _ domrepo.SignalStore = (*CHSignalStore)(nil)
