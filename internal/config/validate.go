// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"fmt"

	"github.com/NHR-FAU/bt-engine/pkg/schema"
)

// Validate checks instance (raw JSON bytes) against the embedded
// driver config schema. It returns an error instead of aborting the
// process: callers decide whether a bad config is fatal (Init does)
// or merely reportable (tests do).
func Validate(instance []byte) error {
	if err := schema.Validate(schema.Config, bytes.NewReader(instance)); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
