package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// HandResult is one winner row in the hand-history ledger.
type HandResult struct {
	ID         int64     `json:"id"`
	TableID    string    `json:"tableId"`
	CapturedAt time.Time `json:"capturedAt"`
	PotSize    string    `json:"potSize"`
	Community  []string  `json:"community"`
	WinnerName string    `json:"winnerName"`
	StackInfo  string    `json:"stackInfo"`
	HandLabel  string    `json:"handLabel,omitempty"`
}

// historyStore is a local sqlite ledger of resolved hands.
type historyStore struct {
	db *sql.DB
}

func openHistory(dbPath string) (*historyStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty history database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS hand_results (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			table_id    TEXT NOT NULL,
			captured_at TEXT NOT NULL,
			pot_size    TEXT NOT NULL,
			community   TEXT NOT NULL,
			winner_name TEXT NOT NULL,
			stack_info  TEXT NOT NULL,
			hand_label  TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_hand_results_table
			ON hand_results(table_id, id DESC);
	`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &historyStore{db: db}, nil
}

// Record writes one ledger row per winner in the snapshot. The winner's
// best-hand label is attached when their hole cards were visible.
func (s *historyStore) Record(ctx context.Context, tableID string, gs GameState) error {
	if len(gs.Winners) == 0 {
		return nil
	}

	community, err := json.Marshal(cardLabels(gs.CommunityCards))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, w := range gs.Winners {
		label := ""
		if p, ok := findPlayer(gs.Players, w.Name); ok {
			label = handLabel(p.Cards, gs.CommunityCards)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hand_results
				(table_id, captured_at, pot_size, community, winner_name, stack_info, hand_label)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tableID, gs.CapturedAt.UTC().Format(time.RFC3339Nano), gs.PotSize,
			string(community), w.Name, w.StackInfo, label,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Recent returns the newest rows for a table, newest first.
func (s *historyStore) Recent(ctx context.Context, tableID string, limit int) ([]HandResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, table_id, captured_at, pot_size, community, winner_name, stack_info, hand_label
		  FROM hand_results
		 WHERE table_id = ?
		 ORDER BY id DESC
		 LIMIT ?`, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []HandResult{}
	for rows.Next() {
		var r HandResult
		var capturedAt, community string
		if err := rows.Scan(&r.ID, &r.TableID, &capturedAt, &r.PotSize, &community,
			&r.WinnerName, &r.StackInfo, &r.HandLabel); err != nil {
			return nil, err
		}
		r.CapturedAt, _ = time.Parse(time.RFC3339Nano, capturedAt)
		if err := json.Unmarshal([]byte(community), &r.Community); err != nil {
			r.Community = []string{}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *historyStore) Close() error {
	return s.db.Close()
}

func cardLabels(cards []Card) []string {
	labels := make([]string, len(cards))
	for i, c := range cards {
		labels[i] = c.String()
	}
	return labels
}

func findPlayer(players []PlayerInfo, name string) (PlayerInfo, bool) {
	for _, p := range players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerInfo{}, false
}

// stateRing keeps the most recent snapshots in memory for watchers and the
// ledger's change detection.
type stateRing struct {
	mu  sync.Mutex
	buf []GameState
	max int
}

func newStateRing(max int) *stateRing {
	return &stateRing{max: max, buf: make([]GameState, 0, max)}
}

func (r *stateRing) push(gs GameState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, gs)
	if len(r.buf) > r.max {
		r.buf = r.buf[len(r.buf)-r.max:]
	}
}

func (r *stateRing) last() (GameState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buf) == 0 {
		return GameState{}, false
	}
	return r.buf[len(r.buf)-1], true
}

func (r *stateRing) recent(n int) []GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 || n > len(r.buf) {
		n = len(r.buf)
	}
	out := make([]GameState, n)
	copy(out, r.buf[len(r.buf)-n:])
	return out
}
