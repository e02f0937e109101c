// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"errors"
	"fmt"
)

// Validate the configuration after loading it from the yaml file.
// Note that most explainer values have code-level defaults applied when
// they are zero, so only actively harmful values are rejected here.
func (c *config) Validate() error {
	if err := c.ExplainerConfig.Validate(); err != nil {
		return err
	}
	if c.APIConfig.Port != 0 && c.APIConfig.Port == c.MonitoringConfig.Port {
		return errors.New("api and monitoring ports must differ")
	}
	if c.OracleConfig.TimeoutSeconds < 0 {
		return errors.New("oracle timeout must not be negative")
	}
	return nil
}

// Validate the explainer engine configuration.
func (c ExplainerConfig) Validate() error {
	if c.NumCandidates < 0 {
		return errors.New("numCandidates must not be negative")
	}
	if c.MaxChangesPerScenario < 0 {
		return errors.New("maxChangesPerScenario must not be negative")
	}
	for name, weight := range map[string]float64{
		"distanceWeight":    c.DistanceWeight,
		"changeCountWeight": c.ChangeCountWeight,
		"feasibilityWeight": c.FeasibilityWeight,
	} {
		if weight < 0 || weight > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %f", name, weight)
		}
	}
	if c.Tolerance < 0 {
		return errors.New("tolerance must not be negative")
	}
	for feature, rule := range c.Rules {
		if rule.MaxRelativeChange != nil && *rule.MaxRelativeChange <= 0 {
			return fmt.Errorf("rule for %s: maxRelativeChange must be positive", feature)
		}
	}
	return nil
}
