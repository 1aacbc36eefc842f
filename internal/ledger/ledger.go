// Package ledger records battle results against a player in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"cardclash/internal/combat"
)

const schema = `
CREATE TABLE IF NOT EXISTS battles (
    battle_id   TEXT PRIMARY KEY,
    player_id   TEXT NOT NULL,
    winner      TEXT NOT NULL,
    player_hp   INTEGER NOT NULL,
    opponent_hp INTEGER NOT NULL,
    seed        INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    result_json TEXT NOT NULL,
    created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS battles_player_created ON battles (player_id, created_at DESC);
`

var ErrNotFound = errors.New("battle not found")

// Record is one stored battle without its log.
type Record struct {
	BattleID   string
	PlayerID   string
	Winner     combat.Winner
	PlayerHP   int
	OpponentHP int
	Seed       int64
	DurationMS int
	CreatedAt  time.Time
}

type Store struct {
	sqlDB *sql.DB
	log   *zap.Logger
	now   func() time.Time
}

// Open opens the SQLite file at path and creates the schema.
func Open(path string, log *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, log: log, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save stores res for playerID and returns the new battle id.
func (s *Store) Save(ctx context.Context, playerID string, res combat.SimResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return "", fmt.Errorf("player id is required")
	}
	body, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	id := uuid.NewString()
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO battles (battle_id, player_id, winner, player_hp, opponent_hp, seed, duration_ms, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, playerID, string(res.Winner), res.PlayerHP, res.OpponentHP, res.Seed, res.DurationMS,
		string(body), s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("insert battle: %w", err)
	}
	s.log.Debug("battle recorded",
		zap.String("battle_id", id),
		zap.String("player_id", playerID),
		zap.String("winner", string(res.Winner)),
		zap.Int64("seed", res.Seed))
	return id, nil
}

// Recent lists the newest battles for a player.
func (s *Store) Recent(ctx context.Context, playerID string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT battle_id, player_id, winner, player_hp, opponent_hp, seed, duration_ms, created_at
		 FROM battles WHERE player_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query battles: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var winner string
		var created int64
		if err := rows.Scan(&r.BattleID, &r.PlayerID, &winner, &r.PlayerHP, &r.OpponentHP, &r.Seed, &r.DurationMS, &created); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		r.Winner = combat.Winner(winner)
		r.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate battles: %w", err)
	}
	return out, nil
}

// Load returns the full stored result, log included.
func (s *Store) Load(ctx context.Context, battleID string) (combat.SimResult, error) {
	if err := ctx.Err(); err != nil {
		return combat.SimResult{}, err
	}
	var body string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT result_json FROM battles WHERE battle_id = ?`, battleID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return combat.SimResult{}, fmt.Errorf("%w: %s", ErrNotFound, battleID)
	}
	if err != nil {
		return combat.SimResult{}, fmt.Errorf("load battle: %w", err)
	}
	var res combat.SimResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return combat.SimResult{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}
