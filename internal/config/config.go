// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/NHR-FAU/bt-engine/pkg/log"
	"github.com/joho/godotenv"
)

// DriverConfig holds everything the cmd/bt-tick driver needs: which
// tree to load, how often to tick it, and where (if anywhere) to
// persist blackboard snapshots.
type DriverConfig struct {
	TreePath     string `json:"tree"`
	TickInterval string `json:"tick-interval"`
	Once         bool   `json:"once"`
	LogLevel     string `json:"log-level"`
	StoreDSN     string `json:"store-dsn"`
}

var Keys = DriverConfig{
	TickInterval: "1s",
	LogLevel:     "info",
}

// Init populates Keys from, in order: the compiled-in defaults above,
// an optional ".env" file (BT_TREE_PATH, BT_TICK_INTERVAL,
// BT_STORE_DSN, BT_LOG_LEVEL), then an optional JSON config file at
// flagConfigFile, validated against the embedded schema (pkg/schema)
// before being decoded
// over Keys. A present but invalid config file is fatal, matching the
// teacher's own config.Init.
func Init(flagConfigFile string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("could not load .env: %v", err)
	}
	applyEnvOverlay()

	if flagConfigFile == "" {
		return
	}
	raw, err := os.ReadFile(flagConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal(err)
		}
		return
	}

	if err := Validate(raw); err != nil {
		log.Fatalf("Validate config: %v\n", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		log.Fatal(err)
	}

	if Keys.TreePath == "" {
		log.Fatal("tree path required in config")
	}
}

func applyEnvOverlay() {
	if v, ok := os.LookupEnv("BT_TREE_PATH"); ok {
		Keys.TreePath = v
	}
	if v, ok := os.LookupEnv("BT_TICK_INTERVAL"); ok {
		Keys.TickInterval = v
	}
	if v, ok := os.LookupEnv("BT_STORE_DSN"); ok {
		Keys.StoreDSN = v
	}
	if v, ok := os.LookupEnv("BT_LOG_LEVEL"); ok {
		Keys.LogLevel = v
	}
}
