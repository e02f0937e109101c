// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Database configuration.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Configuration for the logging module.
type LoggingConfig struct {
	// The log level to use ("debug", "info", "warn", "error").
	LevelStr string `yaml:"level"`
	// The log format to use ("text" or "json").
	Format string `yaml:"format"`
}

// Configuration for the risk oracle the engine queries.
type OracleConfig struct {
	// The URL of the scoring model service. If empty, the built-in
	// threshold oracle is used instead of a remote model.
	URL string `yaml:"url,omitempty"`
	// Timeout for a single prediction call, in seconds.
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`
}

// Configuration for the counterfactual explainer engine.
type ExplainerConfig struct {
	// Number of independent optimization runs per request.
	NumCandidates int `yaml:"numCandidates,omitempty"`
	// Maximum number of changes kept per scenario.
	MaxChangesPerScenario int `yaml:"maxChangesPerScenario,omitempty"`

	// Weights of the search objective terms.
	DistanceWeight    float64 `yaml:"distanceWeight,omitempty"`
	ChangeCountWeight float64 `yaml:"changeCountWeight,omitempty"`
	FeasibilityWeight float64 `yaml:"feasibilityWeight,omitempty"`

	// Tuning of the underlying global optimizer.
	PopulationSize int     `yaml:"populationSize,omitempty"`
	MaxIterations  int     `yaml:"maxIterations,omitempty"`
	Tolerance      float64 `yaml:"tolerance,omitempty"`
	BaseSeed       int64   `yaml:"baseSeed,omitempty"`

	// How many optimization runs may execute in parallel.
	MaxParallel int `yaml:"maxParallel,omitempty"`
	// Timeout for a single optimization run, in seconds.
	RunTimeoutSeconds int `yaml:"runTimeoutSeconds,omitempty"`

	// Per-feature feasibility rules, overriding the built-in defaults.
	Rules map[string]FeasibilityRuleConfig `yaml:"rules,omitempty"`

	// Overrides for the engine's impact tables. Unmarshalled by the
	// explainer module into its own options type.
	ImpactOpts RawOpts `yaml:"impactOpts,omitempty"`
}

// Feasibility rule for a single feature, as given in the config file.
type FeasibilityRuleConfig struct {
	// The feature may only increase, never decrease.
	SolelyIncreasing bool `yaml:"solelyIncreasing,omitempty"`
	// Lower bound on the proposed value.
	MinValue *float64 `yaml:"minValue,omitempty"`
	// Upper bound on the relative change, e.g. 2.0 for "at most doubled".
	MaxRelativeChange *float64 `yaml:"maxRelativeChange,omitempty"`
}

// Configuration for the explainer API.
type APIConfig struct {
	// The port to use for the explainer API.
	Port int `yaml:"port"`
	// If request bodies should be logged out.
	// This feature is intended for debugging purposes only.
	LogRequestBodies bool `yaml:"logRequestBodies"`
}

// Configuration for the monitoring module.
type MonitoringConfig struct {
	// The labels to add to all metrics.
	Labels map[string]string `yaml:"labels"`
	// The port to expose the metrics on.
	Port int `yaml:"port"`
}

// Configuration for the brujula service.
type Config interface {
	GetDBConfig() DBConfig
	GetLoggingConfig() LoggingConfig
	GetOracleConfig() OracleConfig
	GetExplainerConfig() ExplainerConfig
	GetAPIConfig() APIConfig
	GetMonitoringConfig() MonitoringConfig
	// Check if the configuration is valid.
	Validate() error
}

type config struct {
	DBConfig         `yaml:"db"`
	LoggingConfig    `yaml:"logging"`
	OracleConfig     `yaml:"oracle"`
	ExplainerConfig  `yaml:"explainer"`
	APIConfig        `yaml:"api"`
	MonitoringConfig `yaml:"monitoring"`
}

// Create a new configuration from the default config yaml file.
func NewConfig() Config {
	return NewConfigFromFile("/etc/config/conf.yaml")
}

// Create a new configuration from the given file.
func NewConfigFromFile(filepath string) Config {
	file, err := os.Open(filepath)
	if err != nil {
		panic(err)
	}
	defer file.Close()
	bytes, err := io.ReadAll(file)
	if err != nil {
		panic(err)
	}
	return NewConfigFromBytes(bytes)
}

// Create a new configuration from the given bytes.
func NewConfigFromBytes(bytes []byte) Config {
	var c config
	if err := yaml.Unmarshal(bytes, &c); err != nil {
		panic(err)
	}
	return &c
}

func (c *config) GetDBConfig() DBConfig                 { return c.DBConfig }
func (c *config) GetLoggingConfig() LoggingConfig       { return c.LoggingConfig }
func (c *config) GetOracleConfig() OracleConfig         { return c.OracleConfig }
func (c *config) GetExplainerConfig() ExplainerConfig   { return c.ExplainerConfig }
func (c *config) GetAPIConfig() APIConfig               { return c.APIConfig }
func (c *config) GetMonitoringConfig() MonitoringConfig { return c.MonitoringConfig }
