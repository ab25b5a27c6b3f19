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

package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushAndExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	c := NewCenter()
	c.SetClock(func() time.Time { return now })

	c.Push(LevelSuccess, "connected")

	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, LevelSuccess, active[0].Level)
	assert.Equal(t, "connected", active[0].Message)
	assert.NotEmpty(t, active[0].ID)

	now = now.Add(4 * time.Second)
	assert.Empty(t, c.Active())
}

func TestBacklogCap(t *testing.T) {
	c := NewCenter()

	for i := 0; i < 10; i++ {
		c.Push(LevelInfo, fmt.Sprintf("msg %d", i))
	}

	active := c.Active()
	require.Len(t, active, maxBacklog)
	assert.Equal(t, "msg 9", active[len(active)-1].Message)
	assert.Equal(t, "msg 5", active[0].Message)
}
