package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"davomat/internal/modules/session/domain"
	sessionout "davomat/internal/modules/session/port/out"
	"davomat/internal/platform/tx"

	_ "modernc.org/sqlite"
)

// SQLiteArchiveIndex projects archived sessions into a queryable table. It is
// never the source of truth and can be rebuilt from the JSON archive.
type SQLiteArchiveIndex struct {
	db *sql.DB
}

func NewSQLiteArchiveIndex(dbPath string) (*SQLiteArchiveIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	index := &SQLiteArchiveIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

var _ sessionout.ArchiveIndex = (*SQLiteArchiveIndex)(nil)

// Transactions scopes Reset and Upsert calls made inside Within to a single
// transaction.
func (s *SQLiteArchiveIndex) Transactions() tx.Manager {
	return tx.NewSQLManager(s.db)
}

func (s *SQLiteArchiveIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteArchiveIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS archived_sessions (
  id TEXT PRIMARY KEY,
  telegram_id TEXT NOT NULL,
  username TEXT,
  name TEXT,
  object TEXT,
  work_date TEXT NOT NULL,
  start_time TEXT,
  end_time TEXT,
  duration_minutes INTEGER NOT NULL,
  avans REAL NOT NULL,
  taxi REAL NOT NULL,
  food REAL NOT NULL,
  other REAL NOT NULL,
  total REAL NOT NULL,
  has_video TEXT,
  finalized_at TEXT
);
CREATE INDEX IF NOT EXISTS archived_sessions_date ON archived_sessions (work_date);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create archived_sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteArchiveIndex) Reset(ctx context.Context) error {
	if _, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM archived_sessions`); err != nil {
		return fmt.Errorf("reset archived_sessions: %w", err)
	}
	return nil
}

func (s *SQLiteArchiveIndex) Upsert(ctx context.Context, record domain.ArchivedSession) error {
	key := record.ID
	if key == "" {
		// records written before ids existed
		key = record.TelegramID + "|" + record.Date + "|" + record.StartTime
	}
	finalized := ""
	if !record.FinalizedAt.IsZero() {
		finalized = record.FinalizedAt.Format(time.RFC3339)
	}
	const stmt = `
INSERT INTO archived_sessions (id, telegram_id, username, name, object, work_date, start_time, end_time, duration_minutes, avans, taxi, food, other, total, has_video, finalized_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  telegram_id=excluded.telegram_id,
  username=excluded.username,
  name=excluded.name,
  object=excluded.object,
  work_date=excluded.work_date,
  start_time=excluded.start_time,
  end_time=excluded.end_time,
  duration_minutes=excluded.duration_minutes,
  avans=excluded.avans,
  taxi=excluded.taxi,
  food=excluded.food,
  other=excluded.other,
  total=excluded.total,
  has_video=excluded.has_video,
  finalized_at=excluded.finalized_at;
`
	_, err := tx.From(ctx, s.db).ExecContext(ctx, stmt,
		key,
		record.TelegramID,
		record.Username,
		record.Name,
		record.Object,
		record.Date,
		record.StartTime,
		record.EndTime,
		record.DurationMinutes,
		record.Advance,
		record.Taxi,
		record.Food,
		record.OtherExpenseAmount,
		record.TotalExpense,
		record.HasVideo,
		finalized,
	)
	if err != nil {
		return fmt.Errorf("upsert archived session: %w", err)
	}
	return nil
}

// Summaries groups shifts per worker within an inclusive date range. Empty
// bounds are open.
func (s *SQLiteArchiveIndex) Summaries(ctx context.Context, from, to string) ([]domain.WorkerSummary, error) {
	const query = `
SELECT telegram_id, MAX(name), COUNT(*), SUM(duration_minutes), SUM(total)
FROM archived_sessions
WHERE (? = '' OR work_date >= ?) AND (? = '' OR work_date <= ?)
GROUP BY telegram_id
ORDER BY MIN(work_date || ' ' || start_time), telegram_id;
`
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, query, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()
	out := []domain.WorkerSummary{}
	for rows.Next() {
		var (
			summary domain.WorkerSummary
			name    sql.NullString
		)
		if err := rows.Scan(&summary.TelegramID, &name, &summary.Shifts, &summary.Minutes, &summary.TotalExpense); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summary.Name = name.String
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}
