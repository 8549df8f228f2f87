//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration. Values come from the YAML file and
// are overridden by AGUI_* environment variables, which may be set in a
// .env file.
type Config struct {
	Addr              string        `yaml:"addr"`
	Path              string        `yaml:"path"`
	HealthPath        string        `yaml:"health_path"`
	LogLevel          string        `yaml:"log_level"`
	Protobuf          bool          `yaml:"protobuf"`
	Verify            bool          `yaml:"verify"`
	MaxConcurrentRuns int           `yaml:"max_concurrent_runs"`
	AllowedOrigins    []string      `yaml:"allowed_origins"`
	OTLPEndpoint      string        `yaml:"otlp_endpoint"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	ChunkDelay        time.Duration `yaml:"chunk_delay"`
}

func defaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		Path:            "/",
		HealthPath:      "/health",
		LogLevel:        "info",
		Verify:          true,
		ShutdownTimeout: 10 * time.Second,
	}
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("AGUI_ADDR", &c.Addr)
	str("AGUI_PATH", &c.Path)
	str("AGUI_HEALTH_PATH", &c.HealthPath)
	str("AGUI_LOG_LEVEL", &c.LogLevel)
	str("AGUI_OTLP_ENDPOINT", &c.OTLPEndpoint)
	if v, ok := lookup("AGUI_ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = strings.Split(v, ",")
	}
	if v, ok := lookup("AGUI_PROTOBUF"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AGUI_PROTOBUF: %w", err)
		}
		c.Protobuf = b
	}
	if v, ok := lookup("AGUI_VERIFY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AGUI_VERIFY: %w", err)
		}
		c.Verify = b
	}
	if v, ok := lookup("AGUI_MAX_CONCURRENT_RUNS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AGUI_MAX_CONCURRENT_RUNS: %w", err)
		}
		c.MaxConcurrentRuns = n
	}
	return nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path %q must start with /", c.Path)
	}
	if c.MaxConcurrentRuns < 0 {
		return fmt.Errorf("max_concurrent_runs must not be negative")
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultConfig().ShutdownTimeout
	}
	return nil
}
