// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/NHR-FAU/bt-engine/pkg/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind selects which embedded schema Validate compiles against. The
// driver only has one config shape today, but the Kind indirection is
// kept so a second embedded schema (a future tree-level lint pass,
// say) has somewhere to go without reshaping the package.
type Kind int

const (
	Config Kind = iota + 1
)

//go:embed schemas/*
var schemaFiles embed.FS

// Load implements the jsonschema.Loaders contract for the "embedFS"
// scheme, so $ref entries in a schema file can point at its siblings
// without the caller resolving paths itself.
func Load(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return schemaFiles.Open(u.Path)
}

func init() {
	jsonschema.Loaders["embedFS"] = Load
}

// Validate decodes r as JSON and checks it against the schema named
// by k.
func Validate(k Kind, r io.Reader) (err error) {
	var s *jsonschema.Schema

	switch k {
	case Config:
		s, err = jsonschema.Compile("embedFS://schemas/config.schema.json")
	default:
		return fmt.Errorf("unknown schema kind %d", k)
	}
	if err != nil {
		return err
	}

	var v interface{}
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		log.Errorf("schema.Validate() - failed to decode %v", err)
		return err
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%#v", err)
	}
	return nil
}
