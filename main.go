// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sapcc/go-bits/must"

	"github.com/brujula-dev/brujula/internal/conf"
	"github.com/brujula-dev/brujula/internal/counterfactual"
	"github.com/brujula-dev/brujula/internal/db"
	"github.com/brujula-dev/brujula/internal/explainer"
	"github.com/brujula-dev/brujula/internal/logging"
	"github.com/brujula-dev/brujula/internal/monitoring"
	"github.com/brujula-dev/brujula/internal/oracle"
	"github.com/brujula-dev/brujula/internal/store"
)

// How long stored scenarios are kept before the cleanup loop removes them.
const scenarioRetention = 90 * 24 * time.Hour

func main() {
	configFile := "/etc/config/conf.yaml"
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("%s version %s\n", "brujula", "0.0.1")
			os.Exit(0)
		case "--config":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "--config needs a file path")
				os.Exit(1)
			}
			configFile = args[i]
		}
	}

	config := conf.NewConfigFromFile(configFile)
	config.GetLoggingConfig().SetDefaultLogger()
	must.Succeed(config.Validate())

	registry := monitoring.NewRegistry(config.GetMonitoringConfig())
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		addr := fmt.Sprintf(":%d", config.GetMonitoringConfig().Port)
		logging.Log.Info("metrics listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.Log.Error("failed to start metrics server", "error", err)
		}
	}()

	riskOracle := oracle.NewFromConfig(config.GetOracleConfig())
	engine := counterfactual.New(
		config.GetExplainerConfig(),
		riskOracle,
		nil, // default differential evolution
		counterfactual.NewMonitor(registry),
	)

	// Persistence is optional, the engine itself performs no I/O.
	var scenarioStore *store.Store
	if config.GetDBConfig().Host != "" {
		database := db.NewPostgresDB(config.GetDBConfig())
		defer database.Close()
		s := store.NewStore(database)
		scenarioStore = &s

		go func() {
			for {
				deleted, err := s.DeleteOlderThan(context.Background(), scenarioRetention)
				if err != nil {
					logging.Log.Error("scenario cleanup failed", "error", err)
				} else if deleted > 0 {
					logging.Log.Info("scenario cleanup", "deleted", deleted)
				}
				time.Sleep(time.Hour * 1)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	api := explainer.NewAPI(
		config.GetAPIConfig(),
		engine,
		scenarioStore,
		explainer.NewAPIMonitor(registry),
	)
	api.Init(mux)

	addr := fmt.Sprintf(":%d", config.GetAPIConfig().Port)
	logging.Log.Info("Listening on " + addr)
	server := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
		// Generation runs several optimization searches per request.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		logging.Log.Error("failed to start server", "error", err)
	}
}
