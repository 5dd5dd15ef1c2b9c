// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NHR-FAU/bt-engine/internal/builtins"
	"github.com/NHR-FAU/bt-engine/internal/config"
	"github.com/NHR-FAU/bt-engine/internal/driver"
	"github.com/NHR-FAU/bt-engine/internal/parser"
	"github.com/NHR-FAU/bt-engine/internal/store"
	"github.com/NHR-FAU/bt-engine/pkg/log"
)

func main() {
	var flagConfigFile, flagTreePath, flagStoreDSN, flagInterval, flagLogLevel string
	var flagOnce bool
	flag.StringVar(&flagConfigFile, "config", "", "Overwrite the compiled-in defaults with those in `config.json`")
	flag.StringVar(&flagTreePath, "tree", "", "Path to the BehaviorTree.CPP v4 XML file to load (overrides config)")
	flag.StringVar(&flagStoreDSN, "store", "", "sqlite3 DSN for blackboard snapshot persistence (overrides config when non-empty)")
	flag.StringVar(&flagInterval, "interval", "", "Tick interval, e.g. '500ms' (overrides config)")
	flag.StringVar(&flagLogLevel, "log-level", "", "Minimum level printed by the logger (overrides config)")
	flag.BoolVar(&flagOnce, "once", false, "Tick the root exactly once and exit (overrides config)")
	flag.Parse()

	config.Init(flagConfigFile)
	if flagTreePath != "" {
		config.Keys.TreePath = flagTreePath
	}
	if flagStoreDSN != "" {
		config.Keys.StoreDSN = flagStoreDSN
	}
	if flagInterval != "" {
		config.Keys.TickInterval = flagInterval
	}
	if flagLogLevel != "" {
		config.Keys.LogLevel = flagLogLevel
	}
	if flagOnce {
		config.Keys.Once = true
	}

	log.SetLogLevel(config.Keys.LogLevel)
	if config.Keys.TreePath == "" {
		log.Fatal("no tree to load: pass -tree or set \"tree\" in the config file")
	}

	if err := builtins.Register(); err != nil {
		log.Fatal(err)
	}

	tree, err := parser.New().ParseFile(config.Keys.TreePath, nil)
	if err != nil {
		log.Fatalf("parse %s: %v", config.Keys.TreePath, err)
	}

	var st *store.BlackboardStore
	if config.Keys.StoreDSN != "" {
		st, err = store.Open(config.Keys.StoreDSN)
		if err != nil {
			log.Fatal(err)
		}
		defer st.Close()
	}

	d := driver.New(tree, st)

	if config.Keys.Once {
		result, err := d.TickOnce()
		if err != nil {
			log.Fatal(err)
		}
		log.Infof("bt-tick: %s -> %s", config.Keys.TreePath, result)
		return
	}

	interval, err := time.ParseDuration(config.Keys.TickInterval)
	if err != nil {
		log.Fatalf("tick-interval %q: %v", config.Keys.TickInterval, err)
	}
	if err := d.Run(interval); err != nil {
		log.Fatal(err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Info("bt-tick: shutting down")
	if err := d.Shutdown(); err != nil {
		log.Error(err)
	}
}
