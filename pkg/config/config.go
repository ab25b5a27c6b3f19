/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the linewatch client configuration from a local
// JSON file.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/factoryline/linewatch/pkg/logger"
)

const (
	// EnvAPIKey overrides the configured API key.
	EnvAPIKey = "LINEWATCH_API_KEY"

	defaultServerURL    = "http://localhost:5000"
	defaultInitialDelay = Duration(1 * time.Second)
	defaultMaxDelay     = Duration(5 * time.Second)
	defaultMaxAttempts  = 8
)

var (
	errServerURLRequired = errors.New("server_url is required")
	errBadTransport      = errors.New("transport must be \"websocket\" or \"nats\"")
	errNATSURLRequired   = errors.New("nats_url is required for the nats transport")
)

// Duration unmarshals from either a Go duration string ("5s") or a
// number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*d = Duration(time.Duration(v) * time.Second)
		return nil
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}

		*d = Duration(parsed)

		return nil
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// ReconnectConfig bounds the push channel's reconnection policy.
// MaxAttempts zero means retry forever.
type ReconnectConfig struct {
	InitialDelay Duration `json:"initial_delay"`
	MaxDelay     Duration `json:"max_delay"`
	MaxAttempts  int      `json:"max_attempts"`
}

// Config is the full client configuration.
type Config struct {
	ServerURL         string          `json:"server_url"`
	APIKey            string          `json:"api_key" sensitive:"true"`
	Transport         string          `json:"transport"`
	NATSURL           string          `json:"nats_url"`
	StateDir          string          `json:"state_dir"`
	AdminPasswordHash string          `json:"admin_password_hash" sensitive:"true"`
	Reconnect         ReconnectConfig `json:"reconnect"`
	Logging           logger.Config   `json:"logging"`
}

// Transport values.
const (
	TransportWebsocket = "websocket"
	TransportNATS      = "nats"
)

// Default returns a config usable against a local backend.
func Default() *Config {
	stateDir := ""
	if base, err := os.UserConfigDir(); err == nil {
		stateDir = filepath.Join(base, "linewatch")
	}

	return &Config{
		ServerURL: defaultServerURL,
		Transport: TransportWebsocket,
		StateDir:  stateDir,
		Reconnect: ReconnectConfig{
			InitialDelay: defaultInitialDelay,
			MaxDelay:     defaultMaxDelay,
			MaxAttempts:  defaultMaxAttempts,
		},
	}
}

// Load reads the config file at path, applying defaults for anything
// unset. An empty path returns the defaults. The API key may always be
// supplied through the environment instead of the file.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		loader := &FileConfigLoader{}
		if err := loader.Load(ctx, path, cfg); err != nil {
			return nil, err
		}
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate normalizes and checks the configuration.
func (c *Config) Validate() error {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	if c.ServerURL == "" {
		return errServerURLRequired
	}

	if c.Transport == "" {
		c.Transport = TransportWebsocket
	}

	switch c.Transport {
	case TransportWebsocket:
	case TransportNATS:
		if strings.TrimSpace(c.NATSURL) == "" {
			return errNATSURLRequired
		}
	default:
		return errBadTransport
	}

	if c.Reconnect.InitialDelay <= 0 {
		c.Reconnect.InitialDelay = defaultInitialDelay
	}

	if c.Reconnect.MaxDelay < c.Reconnect.InitialDelay {
		c.Reconnect.MaxDelay = defaultMaxDelay
	}

	if c.Reconnect.MaxAttempts < 0 {
		c.Reconnect.MaxAttempts = 0
	}

	return nil
}
