/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package svcconfig loads the server's YAML configuration file through
// go-ucfg, the way packetd's confengine package wraps the same library,
// unpacking it into the plain Config struct the rest of the server reads.
package svcconfig

import (
	"fmt"
	"time"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"

	"github.com/badu/originserver/internal/obslog"
)

// Config is the server's full configuration surface: the listener, the
// document root component D serves from, and the ambient logging layer.
type Config struct {
	Listen struct {
		Address     string        `config:"address"`
		ReadTimeout time.Duration `config:"readTimeout"`
		InitialCap  int           `config:"initialCapacity"`
		MaxCap      int           `config:"maxCapacity"`
	} `config:"listen"`

	DocRoot string `config:"docRoot"`

	Log obslog.Options `config:"log"`
}

// Default returns the configuration the server runs with before any
// file or flag override is applied.
func Default() Config {
	var c Config
	c.Listen.Address = ":8080"
	c.Listen.ReadTimeout = 10 * time.Second
	c.Listen.InitialCap = 4096
	c.Listen.MaxCap = 16384
	c.DocRoot = "./public"
	c.Log.Stdout = true
	c.Log.Level = "info"
	return c
}

// Load reads and unpacks the YAML file at path over Default's values.
func Load(path string) (Config, error) {
	raw, err := yaml.NewConfigWithFile(path, ucfg.PathSep("."))
	if err != nil {
		return Config{}, fmt.Errorf("svcconfig: read %s: %w", path, err)
	}
	cfg := Default()
	if err := raw.Unpack(&cfg); err != nil {
		return Config{}, fmt.Errorf("svcconfig: unpack %s: %w", path, err)
	}
	return cfg, nil
}
