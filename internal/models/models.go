package models

import (
	"encoding/json"
	"time"
)

// BestScore is the persisted best score for one score key.
type BestScore struct {
	Key       string    `db:"score_key" json:"key"`
	Score     int       `db:"score" json:"score"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScoreAudit records an administrative action on a best score
type ScoreAudit struct {
	ID            int             `db:"id" json:"id"`
	Key           string          `db:"score_key" json:"key"`
	IP            string          `db:"ip" json:"ip"`
	Action        string          `db:"action" json:"action"`
	PreviousScore int             `db:"previous_score" json:"previous_score"`
	Details       json.RawMessage `db:"details" json:"details"`
	Success       bool            `db:"success" json:"success"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// TableEventBestReset is the TableEvent status sent when an admin zeroes the
// best score.
const TableEventBestReset = "BEST_RESET"

// TableEvent is published when a table reaches a terminal outcome, or with
// status TableEventBestReset after a best score reset.
type TableEvent struct {
	TableID string    `json:"table_id"`
	Status  string    `json:"status"`
	Reason  string    `json:"reason,omitempty"`
	Score   int       `json:"score"`
	Best    int       `json:"best"`
	Shots   int       `json:"shots"`
	Elapsed float64   `json:"elapsed"`
	EndedAt time.Time `json:"ended_at"`
}
