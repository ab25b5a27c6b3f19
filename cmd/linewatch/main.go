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

// linewatch is the live production-line dashboard: a terminal grid of
// line cards fed by the factory server's push channel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/factoryline/linewatch/pkg/api"
	"github.com/factoryline/linewatch/pkg/cardstore"
	"github.com/factoryline/linewatch/pkg/config"
	"github.com/factoryline/linewatch/pkg/dashboard"
	"github.com/factoryline/linewatch/pkg/filters"
	"github.com/factoryline/linewatch/pkg/localstate"
	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/notify"
	"github.com/factoryline/linewatch/pkg/realtime"
	"github.com/factoryline/linewatch/pkg/ticker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to linewatch config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		return err
	}

	if cfg.StateDir == "" {
		cfg.StateDir = "."
	}

	// The TUI owns the terminal; default logs into the state dir.
	if cfg.Logging.Output == "" || cfg.Logging.Output == "stderr" || cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = filepath.Join(cfg.StateDir, "linewatch.log")

		if mkErr := os.MkdirAll(cfg.StateDir, 0700); mkErr != nil {
			return fmt.Errorf("creating state dir: %w", mkErr)
		}
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}

	lg := logger.Global()

	store := cardstore.New(lg)
	state := localstate.New(cfg.StateDir, lg)
	engine := filters.NewEngine(store, state, lg)
	center := notify.NewCenter()
	sweep := ticker.New(store, lg)
	client := api.NewClient(cfg.ServerURL, cfg.APIKey, lg)

	transport, err := newTransport(cfg, lg)
	if err != nil {
		return err
	}

	adapter := realtime.NewAdapter(transport, store, engine, center, client, cfg.Reconnect, lg)

	model := dashboard.NewModel(store, engine, sweep, center, adapter.Online, state, lg)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	adapter.OnEvent(func(event realtime.Event) {
		program.Send(dashboard.EventMsg{Event: event})
	})

	go func() {
		if runErr := adapter.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			lg.Error().Err(runErr).Msg("Push channel stopped")
		}
	}()

	lg.Info().Str("server", cfg.ServerURL).Str("transport", cfg.Transport).Msg("Starting dashboard")

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	return nil
}

func newTransport(cfg *config.Config, lg logger.Logger) (realtime.Transport, error) {
	if cfg.Transport == config.TransportNATS {
		return realtime.NewNATSChannel(cfg.NATSURL, lg), nil
	}

	return realtime.NewWebsocketChannel(cfg.ServerURL, cfg.APIKey, lg)
}
