package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"gearbot/internal/gear"
)

const tableName = "gear_decisions"

// Record одна строка журнала: что распознали и что решили
type Record struct {
	ID            int64             `json:"id"`
	CycleID       string            `json:"cycle_id"`
	Rarity        string            `json:"rarity"`
	Set           string            `json:"set"`
	Type          string            `json:"type"`
	Level         int               `json:"level"`
	MainProp      string            `json:"main_prop"`
	Score         int               `json:"score"`
	ComputedScore float64           `json:"computed_score"`
	Properties    map[string]int    `json:"properties"`
	Raw           map[string]string `json:"raw,omitempty"`
	Decision      string            `json:"decision"`
	Reason        string            `json:"reason"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewRecord запись для журнала. Расчетная оценка берется по вектору без основной характеристики
func NewRecord(cycleID uuid.UUID, item gear.Item, decision gear.Decision, reason string, raw map[string]string) Record {
	return Record{
		CycleID:       cycleID.String(),
		Rarity:        item.Rarity.String(),
		Set:           item.Set.String(),
		Type:          item.Type.String(),
		Level:         item.Level,
		MainProp:      item.MainProp.String(),
		Score:         item.Score,
		ComputedScore: gear.ComputedScore(item.Reduced()),
		Properties:    item.Properties.Map(),
		Raw:           raw,
		Decision:      decision.String(),
		Reason:        reason,
		CreatedAt:     time.Now(),
	}
}

func schemaFor(dialect string) ([]string, error) {
	switch dialect {
	case DriverSQLite:
		return []string{`CREATE TABLE IF NOT EXISTS ` + tableName + ` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id TEXT NOT NULL,
			rarity TEXT NOT NULL,
			gear_set TEXT NOT NULL,
			gear_type TEXT NOT NULL,
			level INTEGER NOT NULL,
			main_prop TEXT NOT NULL,
			score INTEGER NOT NULL,
			computed_score REAL NOT NULL,
			properties TEXT NOT NULL,
			raw TEXT,
			decision TEXT NOT NULL,
			reason TEXT,
			created_at INTEGER NOT NULL
		)`,
			`CREATE INDEX IF NOT EXISTS idx_gear_decisions_decision ON ` + tableName + ` (decision)`,
		}, nil
	case DriverMySQL:
		return []string{`CREATE TABLE IF NOT EXISTS ` + tableName + ` (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			cycle_id CHAR(36) NOT NULL,
			rarity VARCHAR(16) NOT NULL,
			gear_set VARCHAR(32) NOT NULL,
			gear_type VARCHAR(16) NOT NULL,
			level INT NOT NULL,
			main_prop VARCHAR(32) NOT NULL,
			score INT NOT NULL,
			computed_score DOUBLE NOT NULL,
			properties TEXT NOT NULL,
			raw TEXT,
			decision VARCHAR(16) NOT NULL,
			reason TEXT,
			created_at BIGINT NOT NULL,
			INDEX idx_gear_decisions_decision (decision)
		) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci`,
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", dialect)
}
