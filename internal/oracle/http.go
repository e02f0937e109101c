// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brujula-dev/brujula/internal/conf"
	"github.com/brujula-dev/brujula/internal/features"
)

// Oracle client for a remote scoring model service.
type httpOracle struct {
	url    string
	client *http.Client
}

// Create an oracle from the given config. If no URL is configured, the
// built-in threshold oracle is returned instead of a remote client.
func NewFromConfig(config conf.OracleConfig) Oracle {
	if config.URL == "" {
		return ThresholdOracle{}
	}
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpOracle{
		url:    config.URL,
		client: &http.Client{Timeout: timeout},
	}
}

func (o *httpOracle) Predict(ctx context.Context, set features.Set) (Prediction, error) {
	body, err := json.Marshal(map[string]features.Set{"caracteristicas": set})
	if err != nil {
		return Prediction{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := o.client.Do(req)
	if err != nil {
		return Prediction{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Prediction{}, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}
	var prediction Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return Prediction{}, err
	}
	return prediction, nil
}
