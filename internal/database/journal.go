package database

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

const insertSQL = `INSERT INTO ` + tableName + ` (cycle_id, rarity, gear_set, gear_type, level, main_prop, score, computed_score, properties, raw, decision, reason, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectSQL = `SELECT id, cycle_id, rarity, gear_set, gear_type, level, main_prop, score, computed_score, properties, raw, decision, reason, created_at FROM ` + tableName

// SaveDecision сохраняет запись и возвращает её ID
func (h *DatabaseManager) SaveDecision(ctx context.Context, r Record) (int64, error) {
	props, err := json.Marshal(r.Properties)
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации характеристик: %w", err)
	}
	raw, err := json.Marshal(r.Raw)
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации распознанных строк: %w", err)
	}

	result, err := h.db.ExecContext(ctx, insertSQL,
		r.CycleID, r.Rarity, r.Set, r.Type, r.Level, r.MainProp, r.Score, r.ComputedScore,
		string(props), string(raw), r.Decision, r.Reason, r.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("ошибка вставки данных: %w", err)
	}

	// Получаем ID вставленной записи
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения ID записи: %w", err)
	}
	h.logger.Debug("💾 решение %s сохранено с ID: %d", r.Decision, id)
	return id, nil
}

// SaveDecisionAsync сохраняет запись в фоне; ошибки только логируются
func (h *DatabaseManager) SaveDecisionAsync(r Record) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncSaveTimeout)
		defer cancel()
		if _, err := h.SaveDecision(ctx, r); err != nil {
			h.logger.LogError(err, "Ошибка асинхронного сохранения решения")
		}
	}()
}

// RecentDecisions последние записи, новые первыми
func (h *DatabaseManager) RecentDecisions(ctx context.Context, limit int) ([]Record, error) {
	rows, err := h.db.QueryContext(ctx, selectSQL+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки журнала: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r         Record
			props     string
			raw       *string
			reason    *string
			createdAt int64
		)
		err := rows.Scan(&r.ID, &r.CycleID, &r.Rarity, &r.Set, &r.Type, &r.Level, &r.MainProp,
			&r.Score, &r.ComputedScore, &props, &raw, &r.Decision, &reason, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки журнала: %w", err)
		}
		if err := json.Unmarshal([]byte(props), &r.Properties); err != nil {
			return nil, fmt.Errorf("запись %d: характеристики: %w", r.ID, err)
		}
		if raw != nil {
			if err := json.Unmarshal([]byte(*raw), &r.Raw); err != nil {
				return nil, fmt.Errorf("запись %d: распознанные строки: %w", r.ID, err)
			}
		}
		if reason != nil {
			r.Reason = *reason
		}
		r.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DecisionCounts сколько раз принималось каждое решение
func (h *DatabaseManager) DecisionCounts(ctx context.Context) (map[string]int, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT decision, COUNT(*) FROM `+tableName+` GROUP BY decision`)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета решений: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			decision string
			n        int
		)
		if err := rows.Scan(&decision, &n); err != nil {
			return nil, err
		}
		counts[decision] = n
	}
	return counts, rows.Err()
}
