// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package explainer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brujula-dev/brujula/internal/conf"
	"github.com/brujula-dev/brujula/internal/counterfactual"
	"github.com/brujula-dev/brujula/internal/features"
	"github.com/brujula-dev/brujula/internal/optimize"
	"github.com/brujula-dev/brujula/internal/oracle"
	"github.com/brujula-dev/brujula/internal/store"
	testlibDB "github.com/brujula-dev/brujula/testlib/db"
)

type brokenOracle struct{}

func (brokenOracle) Predict(_ context.Context, _ features.Set) (oracle.Prediction, error) {
	return oracle.Prediction{}, errors.New("oracle unavailable")
}

type stuckOptimizer struct{}

func (stuckOptimizer) Minimize(_ context.Context, _ optimize.Objective, lower, _ []float64, _ int64) (optimize.Result, error) {
	return optimize.Result{X: lower}, optimize.ErrNotConverged
}

// Engine that always takes the deterministic fallback path, so API
// tests do not depend on search behavior.
func testEngine() *counterfactual.Engine {
	config := conf.ExplainerConfig{
		NumCandidates:         1,
		MaxChangesPerScenario: 3,
	}
	return counterfactual.New(config, brokenOracle{}, stuckOptimizer{}, counterfactual.Monitor{})
}

const validBody = `{
	"id_sujeto": "subject-1",
	"caracteristicas": {
		"meses_operacion": 6,
		"ingresos_mensuales_promedio": 1500000
	},
	"categoria_actual": "ALTO",
	"puntaje_actual": 65
}`

func TestAPICounterfactual(t *testing.T) {
	api := NewAPI(conf.APIConfig{}, testEngine(), nil, APIMonitor{})

	req := httptest.NewRequest(http.MethodPost, APICounterfactualURL, strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	api.Counterfactual(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"algoritmo":"RULE_BASED"`) {
		t.Errorf("expected a rule-based fallback result, got %s", body)
	}
	if !strings.Contains(body, "ingresos_mensuales_promedio") {
		t.Errorf("expected an income change in the result, got %s", body)
	}
}

func TestAPICounterfactualRejectsBadRequests(t *testing.T) {
	api := NewAPI(conf.APIConfig{}, testEngine(), nil, APIMonitor{})

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"invalid json", http.MethodPost, "{", http.StatusBadRequest},
		{"no features", http.MethodPost, `{"categoria_actual": "ALTO"}`, http.StatusBadRequest},
		{"no category", http.MethodPost, `{"caracteristicas": {"meses_operacion": 6}}`, http.StatusBadRequest},
	}
	for _, test := range tests {
		req := httptest.NewRequest(test.method, APICounterfactualURL, strings.NewReader(test.body))
		rec := httptest.NewRecorder()
		api.Counterfactual(rec, req)
		if rec.Code != test.want {
			t.Errorf("%s: expected %d, got %d", test.name, test.want, rec.Code)
		}
	}
}

func TestAPICounterfactualPersistsAndLists(t *testing.T) {
	env := testlibDB.SetupDBEnv(t)
	defer env.Close()
	s := store.NewStore(*env.DB)
	api := NewAPI(conf.APIConfig{}, testEngine(), &s, APIMonitor{})

	req := httptest.NewRequest(http.MethodPost, APICounterfactualURL, strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	api.Counterfactual(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, APIScenariosURL+"?id_sujeto=subject-1", nil)
	listRec := httptest.NewRecorder()
	api.Scenarios(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", listRec.Code, listRec.Body.String())
	}
	if !strings.Contains(listRec.Body.String(), `"subject-1"`) {
		t.Errorf("expected the stored scenario, got %s", listRec.Body.String())
	}
}

func TestAPIScenariosRequiresSubject(t *testing.T) {
	env := testlibDB.SetupDBEnv(t)
	defer env.Close()
	s := store.NewStore(*env.DB)
	api := NewAPI(conf.APIConfig{}, testEngine(), &s, APIMonitor{})

	req := httptest.NewRequest(http.MethodGet, APIScenariosURL, nil)
	rec := httptest.NewRecorder()
	api.Scenarios(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
