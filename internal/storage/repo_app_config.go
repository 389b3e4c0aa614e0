package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	keyChartInactiveMethods = "chart.inactive_methods"
	keyChartHidden          = "chart.hidden"
)

type AppConfigRepo struct {
	db *sql.DB
}

func NewAppConfigRepo(db *sql.DB) *AppConfigRepo {
	return &AppConfigRepo{db: db}
}

func (r *AppConfigRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM app_config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get app config %q: %w", key, err)
	}
	return value, true, nil
}

func (r *AppConfigRepo) UpsertMany(ctx context.Context, values map[string]string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin app config upsert transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range values {
		if _, err = tx.ExecContext(
			ctx,
			`INSERT INTO app_config (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key,
			value,
			now,
		); err != nil {
			return fmt.Errorf("upsert app config %q: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit app config upsert transaction: %w", err)
	}
	return nil
}

// ChartPrefs is the chart page state that survives restarts.
type ChartPrefs struct {
	// Inactive lists methods excluded from bounds and rendering.
	Inactive []string
	Hidden   bool
}

// Activation expands the inactive list into an activation map over roster.
func (p ChartPrefs) Activation(roster []string) map[string]bool {
	off := make(map[string]bool, len(p.Inactive))
	for _, name := range p.Inactive {
		off[name] = true
	}
	out := make(map[string]bool, len(roster))
	for _, name := range roster {
		out[name] = !off[name]
	}
	return out
}

func (r *AppConfigRepo) ChartPrefs(ctx context.Context) (ChartPrefs, error) {
	var prefs ChartPrefs

	raw, ok, err := r.Get(ctx, keyChartInactiveMethods)
	if err != nil {
		return ChartPrefs{}, err
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &prefs.Inactive); err != nil {
			return ChartPrefs{}, fmt.Errorf("decode %s: %w", keyChartInactiveMethods, err)
		}
	}

	raw, ok, err = r.Get(ctx, keyChartHidden)
	if err != nil {
		return ChartPrefs{}, err
	}
	if ok {
		if prefs.Hidden, err = strconv.ParseBool(raw); err != nil {
			return ChartPrefs{}, fmt.Errorf("decode %s: %w", keyChartHidden, err)
		}
	}
	return prefs, nil
}

func (r *AppConfigRepo) SaveChartPrefs(ctx context.Context, prefs ChartPrefs) error {
	inactive := prefs.Inactive
	if inactive == nil {
		inactive = []string{}
	}
	encoded, err := json.Marshal(inactive)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyChartInactiveMethods, err)
	}
	return r.UpsertMany(ctx, map[string]string{
		keyChartInactiveMethods: string(encoded),
		keyChartHidden:          strconv.FormatBool(prefs.Hidden),
	})
}
