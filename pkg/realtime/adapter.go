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

// Package realtime connects the push channel to the card store. It owns
// the reconnect policy, translates wire envelopes into typed events for
// a single consumer, and triggers a full snapshot resync whenever the
// channel comes (back) up, since the channel does not replay missed
// updates.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/factoryline/linewatch/pkg/cardstore"
	"github.com/factoryline/linewatch/pkg/config"
	"github.com/factoryline/linewatch/pkg/filters"
	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
	"github.com/factoryline/linewatch/pkg/notify"
)

// SnapshotFetcher supplies the full line snapshot for resync.
type SnapshotFetcher interface {
	GetLines(ctx context.Context) ([]models.LineUpdate, error)
}

// Handler receives every adapter event. There is exactly one handler;
// fan-out is the consumer's problem.
type Handler func(Event)

// Adapter drives a Transport and applies its traffic to the card store.
type Adapter struct {
	transport Transport
	store     *cardstore.Store
	engine    *filters.Engine
	notifier  *notify.Center
	snapshots SnapshotFetcher
	reconnect config.ReconnectConfig
	logger    logger.Logger

	handler   Handler
	online    atomic.Bool
	resyncing atomic.Bool

	// sleep is swapped out in tests to observe the backoff schedule.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewAdapter wires a transport to the store, filter engine, and toast
// center. The handler may be nil.
func NewAdapter(
	transport Transport,
	store *cardstore.Store,
	engine *filters.Engine,
	notifier *notify.Center,
	snapshots SnapshotFetcher,
	reconnect config.ReconnectConfig,
	log logger.Logger,
) *Adapter {
	return &Adapter{
		transport: transport,
		store:     store,
		engine:    engine,
		notifier:  notifier,
		snapshots: snapshots,
		reconnect: reconnect,
		logger:    log,
		sleep:     ctxSleep,
	}
}

// OnEvent sets the event handler. Must be called before Run.
func (a *Adapter) OnEvent(fn Handler) {
	a.handler = fn
}

// Online reports whether the channel is currently up. The connection
// indicator must render this truthfully, never optimistically.
func (a *Adapter) Online() bool {
	return a.online.Load()
}

// Run drives connect/read/reconnect until the context is canceled or
// the attempt budget is exhausted. Delay doubles per failed attempt up
// to the cap and resets after any successful session. A MaxAttempts of
// zero retries forever.
func (a *Adapter) Run(ctx context.Context) error {
	initial := time.Duration(a.reconnect.InitialDelay)
	maxDelay := time.Duration(a.reconnect.MaxDelay)

	delay := initial
	attempt := 0

	for {
		connected, err := a.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if connected {
			attempt = 0
			delay = initial
		}

		attempt++

		if a.reconnect.MaxAttempts > 0 && attempt >= a.reconnect.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
		}

		a.logger.Info().
			Err(err).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Reconnecting to push channel")

		if err := a.sleep(ctx, delay); err != nil {
			return err
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

// session runs one connect-and-read cycle. It reports whether the
// connection was ever established and the error that ended it.
func (a *Adapter) session(ctx context.Context) (bool, error) {
	if err := a.transport.Connect(ctx); err != nil {
		a.setOffline(err)
		return false, err
	}

	a.online.Store(true)
	a.notifier.Push(notify.LevelSuccess, "Connected to factory server")
	a.emit(Connected{})

	// Resync in the background so a slow snapshot fetch never blocks
	// the read loop; missed-while-offline state arrives this way.
	go a.resync(ctx)

	var err error

	for {
		var msg Message

		msg, err = a.transport.Read(ctx)
		if err != nil {
			break
		}

		a.dispatch(msg)
	}

	_ = a.transport.Close()
	a.setOffline(err)

	return true, err
}

// dispatch routes one envelope. Malformed payloads are logged and
// dropped; the session stays up.
func (a *Adapter) dispatch(msg Message) {
	switch msg.Event {
	case eventLineUpdate:
		var update models.LineUpdate
		if err := json.Unmarshal(msg.Data, &update); err != nil {
			a.logger.Debug().Err(err).Msg("Dropping malformed line update")
			return
		}

		if !a.store.Apply(update) {
			return
		}

		a.emit(LineUpdated{Update: update, Result: a.engine.Recompute()})

	case eventBatchUpdate:
		updates, err := models.DecodeBatch(msg.Data)
		if err != nil {
			a.logger.Debug().Err(err).Msg("Dropping malformed batch update")
			return
		}

		applied := a.store.ApplyBatch(updates)

		// One recompute per batch, not per item.
		a.emit(BatchApplied{Applied: applied, Result: a.engine.Recompute()})

	case eventLineAck:
		var ack models.LineUpdate
		if err := json.Unmarshal(msg.Data, &ack); err != nil || !ack.Valid() {
			a.logger.Debug().Err(err).Msg("Dropping malformed line ack")
			return
		}

		a.notifier.Push(notify.LevelSuccess, fmt.Sprintf("%s acknowledged", models.DisplayNameForLine(ack.Line)))
		a.emit(LineAcked{Line: ack.Line})

	case eventLineAckError:
		var payload struct {
			Message string `json:"message"`
		}

		_ = json.Unmarshal(msg.Data, &payload)

		if payload.Message == "" {
			payload.Message = "Acknowledgment failed"
		}

		a.notifier.Push(notify.LevelError, payload.Message)

	default:
		a.logger.Debug().Str("event", msg.Event).Msg("Ignoring unknown push event")
	}
}

// resync reloads the full snapshot. Overlapping calls collapse to one;
// on failure the last known good card set is kept.
func (a *Adapter) resync(ctx context.Context) {
	if !a.resyncing.CompareAndSwap(false, true) {
		a.logger.Debug().Msg("Resync already in flight")
		return
	}
	defer a.resyncing.Store(false)

	lines, err := a.snapshots.GetLines(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Snapshot resync failed, keeping current cards")
		a.notifier.Push(notify.LevelError, "Failed to reload line status")

		return
	}

	a.store.ResetFromSnapshot(lines)
	a.emit(Resynced{Lines: len(lines), Result: a.engine.Recompute()})
}

func (a *Adapter) setOffline(err error) {
	if a.online.Swap(false) {
		a.notifier.Push(notify.LevelWarning, "Connection to factory server lost")
	}

	a.emit(Disconnected{Err: err})
}

func (a *Adapter) emit(event Event) {
	if a.handler != nil {
		a.handler(event)
	}
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
