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

// Package localstate persists small pieces of per-user UI state between
// runs, keyed like browser local storage. Writes are synchronous and
// best-effort: a failed read or write degrades to defaults, never to an
// error surfaced to the caller.
package localstate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/factoryline/linewatch/pkg/logger"
)

const (
	// KeyFilters holds the serialized dashboard filter selection.
	KeyFilters = "dashboard_filters"
	// KeySidebar holds the sidebar collapsed/expanded flag.
	KeySidebar = "sidebar_collapsed"

	stateFileName  = "state.json"
	stateFilePerms = 0600
	stateDirPerms  = 0700
)

// Store is a file-backed key/value store for UI state.
type Store struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
}

// New returns a store rooted at dir. The directory is created lazily on
// the first write.
func New(dir string, log logger.Logger) *Store {
	return &Store{
		path:   filepath.Join(dir, stateFileName),
		logger: log,
	}
}

// Get unmarshals the value stored under key into dst. It returns false
// when the key is absent or the stored state is unreadable or corrupt.
func (s *Store) Get(key string, dst interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.read()

	raw, ok := entries[key]
	if !ok {
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("Discarding corrupt saved state")
		return false
	}

	return true
}

// Set stores value under key. Failures are swallowed.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("Failed to serialize state")
		return
	}

	entries := s.read()
	entries[key] = raw

	s.write(entries)
}

// Delete removes a key. Failures are swallowed.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.read()
	if _, ok := entries[key]; !ok {
		return
	}

	delete(entries, key)
	s.write(entries)
}

func (s *Store) read() map[string]json.RawMessage {
	entries := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return entries
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Debug().Err(err).Str("path", s.path).Msg("Ignoring corrupt state file")
		return make(map[string]json.RawMessage)
	}

	return entries
}

func (s *Store) write(entries map[string]json.RawMessage) {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		s.logger.Debug().Err(err).Msg("Failed to marshal state file")
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), stateDirPerms); err != nil {
		s.logger.Debug().Err(err).Str("path", s.path).Msg("Failed to create state dir")
		return
	}

	if err := os.WriteFile(s.path, data, stateFilePerms); err != nil {
		s.logger.Debug().Err(err).Str("path", s.path).Msg("Failed to write state file")
	}
}
