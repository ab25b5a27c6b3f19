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

package realtime

import (
	"encoding/json"

	"github.com/factoryline/linewatch/pkg/filters"
	"github.com/factoryline/linewatch/pkg/models"
)

// Wire event names on the push channel.
const (
	eventLineUpdate   = "line_update"
	eventBatchUpdate  = "batch_update"
	eventLineAck      = "line_ack"
	eventLineAckError = "line_ack_error"
)

// Message is the envelope every push payload arrives in.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Event is the closed set of notifications the adapter emits to its one
// consumer. Exactly one concrete type per variant.
type Event interface {
	isEvent()
}

// Connected fires when the channel comes up, including after a
// reconnect. A resync has already been kicked off when it is delivered.
type Connected struct {
	Attempt int
}

// Disconnected fires whenever the channel goes down or an attempt
// fails; the connection indicator must reflect it truthfully.
type Disconnected struct {
	Err error
}

// LineUpdated fires after a single-line update was applied to the store
// and the filter result recomputed.
type LineUpdated struct {
	Update models.LineUpdate
	Result filters.Result
}

// BatchApplied fires after a batch was applied in order, with one
// recompute for the whole batch.
type BatchApplied struct {
	Applied int
	Result  filters.Result
}

// LineAcked fires when a line acknowledgment is broadcast.
type LineAcked struct {
	Line int
}

// Resynced fires after a successful full snapshot reload.
type Resynced struct {
	Lines  int
	Result filters.Result
}

func (Connected) isEvent()    {}
func (Disconnected) isEvent() {}
func (LineUpdated) isEvent()  {}
func (BatchApplied) isEvent() {}
func (LineAcked) isEvent()    {}
func (Resynced) isEvent()     {}
