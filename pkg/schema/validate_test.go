// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package schema

import (
	"bytes"
	"testing"
)

func TestValidateConfigAcceptsAWellFormedDriverConfig(t *testing.T) {
	json := []byte(`{
		"tree": "trees/patrol.xml",
		"tick-interval": "500ms",
		"log-level": "info",
		"store-dsn": "snapshots.db"
	}`)

	if err := Validate(Config, bytes.NewReader(json)); err != nil {
		t.Errorf("Error is not nil! %v", err)
	}
}

func TestValidateConfigRejectsAMissingTree(t *testing.T) {
	json := []byte(`{"tick-interval": "500ms"}`)

	if err := Validate(Config, bytes.NewReader(json)); err == nil {
		t.Error("expected an error for a config file missing \"tree\"")
	}
}

func TestValidateConfigRejectsWrongFieldType(t *testing.T) {
	json := []byte(`{"tree": "trees/patrol.xml", "once": "yes"}`)

	if err := Validate(Config, bytes.NewReader(json)); err == nil {
		t.Error("expected an error for \"once\" not being a boolean")
	}
}
