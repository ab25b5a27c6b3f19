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

package localstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryline/linewatch/pkg/logger"
)

type selection struct {
	Area   string `json:"area"`
	Status string `json:"status"`
	Search string `json:"search"`
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, logger.NewTestLogger())

	store.Set(KeyFilters, selection{Area: "Panel", Status: "fault", Search: "a"})

	// A fresh store over the same dir simulates a reload.
	reloaded := New(dir, logger.NewTestLogger())

	var got selection
	require.True(t, reloaded.Get(KeyFilters, &got))
	assert.Equal(t, selection{Area: "Panel", Status: "fault", Search: "a"}, got)
}

func TestStoreMissingKey(t *testing.T) {
	store := New(t.TempDir(), logger.NewTestLogger())

	var got selection
	assert.False(t, store.Get(KeyFilters, &got))
}

func TestStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFileName), []byte("{not json"), 0600))

	store := New(dir, logger.NewTestLogger())

	var got selection
	assert.False(t, store.Get(KeyFilters, &got))

	// Writing over a corrupt file must recover it.
	store.Set(KeySidebar, true)

	var collapsed bool
	require.True(t, store.Get(KeySidebar, &collapsed))
	assert.True(t, collapsed)
}

func TestStoreCorruptValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, stateFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"dashboard_filters": "not-an-object"}`), 0600))

	store := New(dir, logger.NewTestLogger())

	var got selection
	assert.False(t, store.Get(KeyFilters, &got))
}

func TestStoreUnwritableDirSwallowed(t *testing.T) {
	store := New(filepath.Join(string(os.PathSeparator), "dev", "null", "nested"), logger.NewTestLogger())

	// Must not panic or return an error surface.
	store.Set(KeySidebar, true)

	var collapsed bool
	assert.False(t, store.Get(KeySidebar, &collapsed))
}

func TestStoreDelete(t *testing.T) {
	store := New(t.TempDir(), logger.NewTestLogger())

	store.Set(KeySidebar, true)
	store.Delete(KeySidebar)

	var collapsed bool
	assert.False(t, store.Get(KeySidebar, &collapsed))
}
