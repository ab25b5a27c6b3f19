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

package models

import "time"

// Device is a provisioned MAC-to-line binding. The MAC address is the
// immutable primary key; an empty Line means the device is unassigned.
// Status and LastSeen are server-reported and read-only from the client.
type Device struct {
	MAC      string     `json:"mac"`
	Line     string     `json:"line,omitempty"`
	Area     string     `json:"area,omitempty"`
	Status   string     `json:"status,omitempty"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// Online reports whether the server last saw the device alive.
func (d *Device) Online() bool {
	return d.Status == "online"
}
