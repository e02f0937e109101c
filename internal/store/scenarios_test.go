// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"testing"
	"time"

	"github.com/brujula-dev/brujula/internal/counterfactual"
	"github.com/brujula-dev/brujula/internal/oracle"
	testlibDB "github.com/brujula-dev/brujula/testlib/db"
)

func sampleResult() *counterfactual.Result {
	score := 65.0
	achieved := 45.0
	return &counterfactual.Result{
		Current: counterfactual.CurrentScenario{Category: oracle.CategoryHigh, Score: &score},
		Target: counterfactual.TargetScenario{
			Category:           oracle.CategoryMedium,
			AchievableScore:    &achieved,
			AchievableCategory: oracle.CategoryMedium,
		},
		Metrics: counterfactual.ResultMetrics{
			Improvement:        20,
			SuccessProbability: 0.4,
			Viability:          0.6,
			Feasible:           true,
		},
		Metadata: counterfactual.Metadata{Algorithm: "DiCE"},
	}
}

func TestStoreSaveAndRecent(t *testing.T) {
	env := testlibDB.SetupDBEnv(t)
	defer env.Close()
	s := NewStore(*env.DB)

	record, err := s.Save(context.Background(), "subject-1", sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	if record.ID == "" {
		t.Error("expected a generated record id")
	}
	if record.CurrentCategory != oracle.CategoryHigh || record.TargetCategory != oracle.CategoryMedium {
		t.Errorf("unexpected categories: %q -> %q", record.CurrentCategory, record.TargetCategory)
	}

	records, err := s.Recent(context.Background(), "subject-1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	restored, err := records[0].Result()
	if err != nil {
		t.Fatal(err)
	}
	if restored.Current.Category != oracle.CategoryHigh {
		t.Errorf("payload did not round-trip: %+v", restored)
	}

	other, err := s.Recent(context.Background(), "subject-2", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("expected no records for another subject, got %d", len(other))
	}
}

func TestStoreDeleteOlderThan(t *testing.T) {
	env := testlibDB.SetupDBEnv(t)
	defer env.Close()
	s := NewStore(*env.DB)

	if _, err := s.Save(context.Background(), "subject-1", sampleResult()); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.DeleteOlderThan(context.Background(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 0 {
		t.Errorf("fresh records must survive, deleted %d", deleted)
	}

	deleted, err = s.DeleteOlderThan(context.Background(), -time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted record, got %d", deleted)
	}

	records, err := s.Recent(context.Background(), "subject-1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records after cleanup, got %d", len(records))
	}
}
