// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/brujula-dev/brujula/internal/counterfactual"
	"github.com/brujula-dev/brujula/internal/db"
)

// One persisted counterfactual explanation. The full formatted result
// is stored as an opaque JSON payload next to the columns used for
// querying.
type ScenarioRecord struct {
	ID                 string    `db:"id" json:"id"`
	SubjectID          string    `db:"subject_id" json:"id_sujeto"`
	CurrentCategory    string    `db:"current_category" json:"categoria_actual"`
	TargetCategory     string    `db:"target_category" json:"categoria_objetivo"`
	AchievedCategory   string    `db:"achieved_category" json:"categoria_alcanzable"`
	Improvement        float64   `db:"improvement" json:"mejora_puntaje"`
	SuccessProbability float64   `db:"success_probability" json:"probabilidad_exito"`
	Viability          float64   `db:"viability" json:"viabilidad"`
	Feasible           bool      `db:"feasible" json:"factible"`
	Algorithm          string    `db:"algorithm" json:"algoritmo"`
	Payload            string    `db:"payload,size:16384" json:"resultado"`
	CreatedAt          time.Time `db:"created_at" json:"creado_en"`
}

// Table in which the records are stored.
func (ScenarioRecord) TableName() string { return "counterfactual_scenarios" }

// Persists generated scenarios and serves them back for later review.
type Store struct {
	DB db.DB
}

// Create a new store and ensure its table exists.
func NewStore(database db.DB) Store {
	tableMap := database.AddTable(ScenarioRecord{})
	tableMap.SetKeys(false, "id")
	if err := database.CreateTable(tableMap); err != nil {
		panic(err)
	}
	return Store{DB: database}
}

// Persist one generated result for a subject.
func (s Store) Save(ctx context.Context, subjectID string, result *counterfactual.Result) (ScenarioRecord, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return ScenarioRecord{}, err
	}
	record := ScenarioRecord{
		ID:                 uuid.NewString(),
		SubjectID:          subjectID,
		CurrentCategory:    result.Current.Category,
		TargetCategory:     result.Target.Category,
		AchievedCategory:   result.Target.AchievableCategory,
		Improvement:        result.Metrics.Improvement,
		SuccessProbability: result.Metrics.SuccessProbability,
		Viability:          result.Metrics.Viability,
		Feasible:           result.Metrics.Feasible,
		Algorithm:          result.Metadata.Algorithm,
		Payload:            string(payload),
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Insert(&record); err != nil {
		return ScenarioRecord{}, err
	}
	return record, nil
}

// Fetch the most recent records for a subject, newest first.
func (s Store) Recent(ctx context.Context, subjectID string, limit int) ([]ScenarioRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []ScenarioRecord
	_, err := s.DB.WithContext(ctx).Select(&records,
		"SELECT * FROM counterfactual_scenarios WHERE subject_id = :subject_id "+
			"ORDER BY created_at DESC LIMIT :limit",
		map[string]any{"subject_id": subjectID, "limit": limit},
	)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Unmarshal the stored payload back into a result.
func (r ScenarioRecord) Result() (*counterfactual.Result, error) {
	var result counterfactual.Result
	if err := json.Unmarshal([]byte(r.Payload), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete records older than the given age. Returns the number of
// deleted rows.
func (s Store) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	result, err := s.DB.WithContext(ctx).Exec(
		"DELETE FROM counterfactual_scenarios WHERE created_at < :cutoff",
		map[string]any{"cutoff": cutoff},
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
