// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package explainer

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/brujula-dev/brujula/internal/conf"
	"github.com/brujula-dev/brujula/internal/counterfactual"
	"github.com/brujula-dev/brujula/internal/features"
	"github.com/brujula-dev/brujula/internal/logging"
	"github.com/brujula-dev/brujula/internal/store"
)

var (
	// URL under which counterfactual explanations are generated.
	APICounterfactualURL = "/explainer/counterfactual"
	// URL under which stored scenarios are listed.
	APIScenariosURL = "/explainer/scenarios"
)

type APICounterfactualRequest struct {
	// Subject to persist the result under. Optional; without it the
	// result is returned but not stored.
	SubjectID string `json:"id_sujeto,omitempty"`

	Features   features.Set         `json:"caracteristicas"`
	Embeddings map[string][]float64 `json:"embeddings,omitempty"`

	CurrentCategory string  `json:"categoria_actual"`
	CurrentScore    float64 `json:"puntaje_actual"`
	TargetCategory  string  `json:"categoria_objetivo,omitempty"`

	NumCandidates int  `json:"num_candidatos,omitempty"`
	MaxChanges    int  `json:"max_cambios,omitempty"`
	FeasibleOnly  bool `json:"solo_factibles,omitempty"`
}

type APIScenariosResponse struct {
	Scenarios []store.ScenarioRecord `json:"escenarios"`
}

// HTTP surface of the counterfactual engine.
type API struct {
	config  conf.APIConfig
	engine  *counterfactual.Engine
	store   *store.Store
	monitor APIMonitor
}

// Create a new explainer API. The store may be nil when persistence is
// not wired up.
func NewAPI(config conf.APIConfig, engine *counterfactual.Engine, s *store.Store, monitor APIMonitor) *API {
	return &API{config: config, engine: engine, store: s, monitor: monitor}
}

// Bind the API handlers to the given mux.
func (api *API) Init(mux *http.ServeMux) {
	mux.HandleFunc(APICounterfactualURL, api.Counterfactual)
	mux.HandleFunc(APIScenariosURL, api.Scenarios)
}

func validateRequest(requestData APICounterfactualRequest) (bool, string) {
	if len(requestData.Features) == 0 {
		return false, "caracteristicas must not be empty"
	}
	if requestData.CurrentCategory == "" {
		return false, "categoria_actual must be given"
	}
	return true, ""
}

// Handle a POST request to generate a counterfactual explanation.
func (api *API) Counterfactual(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	code := http.StatusOK
	defer func() {
		api.monitor.observeRequest(APICounterfactualURL, code, time.Since(start).Seconds())
	}()

	if r.Method != http.MethodPost {
		code = http.StatusMethodNotAllowed
		http.Error(w, "Invalid request method", code)
		return
	}
	var requestData APICounterfactualRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		code = http.StatusBadRequest
		http.Error(w, "Bad request", code)
		return
	}
	requestID := uuid.NewString()
	logging.Log.Info(
		"handling POST request",
		"url", APICounterfactualURL,
		"requestID", requestID,
		"category", requestData.CurrentCategory,
		"features", len(requestData.Features),
	)
	if api.config.LogRequestBodies {
		logging.Log.Debug("request body", "requestID", requestID, "body", requestData)
	}

	if ok, reason := validateRequest(requestData); !ok {
		code = http.StatusBadRequest
		http.Error(w, reason, code)
		return
	}

	result := api.engine.Generate(r.Context(), counterfactual.Request{
		Features:        requestData.Features,
		Embeddings:      requestData.Embeddings,
		CurrentCategory: requestData.CurrentCategory,
		CurrentScore:    requestData.CurrentScore,
		TargetCategory:  requestData.TargetCategory,
		NumCandidates:   requestData.NumCandidates,
		MaxChanges:      requestData.MaxChanges,
		FeasibleOnly:    requestData.FeasibleOnly,
	})

	if api.store != nil && requestData.SubjectID != "" {
		if _, err := api.store.Save(r.Context(), requestData.SubjectID, result); err != nil {
			// Persistence is best-effort, the caller still gets the result.
			logging.Log.Error("failed to store scenario", "requestID", requestID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logging.Log.Error("failed to encode response", "requestID", requestID, "error", err)
	}
}

// Handle a GET request listing stored scenarios for a subject.
func (api *API) Scenarios(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	code := http.StatusOK
	defer func() {
		api.monitor.observeRequest(APIScenariosURL, code, time.Since(start).Seconds())
	}()

	if r.Method != http.MethodGet {
		code = http.StatusMethodNotAllowed
		http.Error(w, "Invalid request method", code)
		return
	}
	if api.store == nil {
		code = http.StatusNotFound
		http.Error(w, "No scenario store configured", code)
		return
	}
	subjectID := r.URL.Query().Get("id_sujeto")
	if subjectID == "" {
		code = http.StatusBadRequest
		http.Error(w, "id_sujeto must be given", code)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limite"))

	records, err := api.store.Recent(r.Context(), subjectID, limit)
	if err != nil {
		logging.Log.Error("failed to list scenarios", "subjectID", subjectID, "error", err)
		code = http.StatusInternalServerError
		http.Error(w, "Failed to list scenarios", code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(APIScenariosResponse{Scenarios: records}); err != nil {
		logging.Log.Error("failed to encode response", "error", err)
	}
}
