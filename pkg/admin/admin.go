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

// Package admin is the device provisioning surface: listing, adding,
// and removing MAC-to-line bindings, behind a password gate.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
)

var (
	// ErrBadPassword is returned when the admin password does not match.
	ErrBadPassword = errors.New("admin: invalid password")
	// ErrNoPasswordSet is returned when no admin password hash is configured.
	ErrNoPasswordSet = errors.New("admin: no password configured")
	// ErrBadMAC is returned for an unparseable MAC address.
	ErrBadMAC = errors.New("admin: invalid mac address")
	// ErrBadLine is returned for a line id outside the plant range.
	ErrBadLine = errors.New("admin: invalid line id")
)

// DeviceAPI is the slice of the REST client the admin surface needs.
type DeviceAPI interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
	CreateDevice(ctx context.Context, device models.Device) error
	DeleteDevice(ctx context.Context, mac string) error
}

// Manager performs provisioning operations against the backend.
type Manager struct {
	api          DeviceAPI
	passwordHash string
	logger       logger.Logger
}

// NewManager builds a manager. passwordHash is a bcrypt hash; empty
// means the gate always refuses.
func NewManager(api DeviceAPI, passwordHash string, log logger.Logger) *Manager {
	return &Manager{
		api:          api,
		passwordHash: passwordHash,
		logger:       log,
	}
}

// Authenticate checks the admin password against the configured hash.
func (m *Manager) Authenticate(password string) error {
	if m.passwordHash == "" {
		return ErrNoPasswordSet
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.passwordHash), []byte(password)); err != nil {
		m.logger.Warn().Msg("Admin authentication failed")
		return ErrBadPassword
	}

	return nil
}

// List returns the provisioned devices in display order and how many
// are currently online.
func (m *Manager) List(ctx context.Context) ([]models.Device, int, error) {
	devices, err := m.api.ListDevices(ctx)
	if err != nil {
		return nil, 0, err
	}

	SortDevices(devices)

	online := 0

	for i := range devices {
		if devices[i].Online() {
			online++
		}
	}

	return devices, online, nil
}

// Add provisions a MAC-to-line binding after validating both halves.
func (m *Manager) Add(ctx context.Context, mac, line string) error {
	normalized, err := normalizeMAC(mac)
	if err != nil {
		return err
	}

	area := ""

	line = strings.TrimSpace(line)
	if line != "" {
		id, err := strconv.Atoi(line)
		if err != nil || id < models.MinLine || id > models.MaxLine {
			return fmt.Errorf("%w: %q", ErrBadLine, line)
		}

		area = models.AreaForLine(id)
	}

	m.logger.Info().Str("mac", normalized).Str("line", line).Msg("Provisioning device")

	return m.api.CreateDevice(ctx, models.Device{MAC: normalized, Line: line, Area: area})
}

// Remove deletes a device binding by MAC.
func (m *Manager) Remove(ctx context.Context, mac string) error {
	normalized, err := normalizeMAC(mac)
	if err != nil {
		return err
	}

	m.logger.Info().Str("mac", normalized).Msg("Removing device")

	return m.api.DeleteDevice(ctx, normalized)
}

// SortDevices orders the provisioning table: numeric line assignments
// ascending first, everything else (unassigned or free-form) after, by
// MAC for stability.
func SortDevices(devices []models.Device) {
	sort.SliceStable(devices, func(i, j int) bool {
		li, iNum := lineSortKey(devices[i].Line)
		lj, jNum := lineSortKey(devices[j].Line)

		switch {
		case iNum && jNum:
			if li != lj {
				return li < lj
			}

			return devices[i].MAC < devices[j].MAC
		case iNum:
			return true
		case jNum:
			return false
		default:
			return devices[i].MAC < devices[j].MAC
		}
	})
}

// LineLabel renders a device's assignment for the table.
func LineLabel(d *models.Device) string {
	if strings.TrimSpace(d.Line) == "" {
		return "unassigned"
	}

	if id, err := strconv.Atoi(d.Line); err == nil {
		return models.DisplayNameForLine(id)
	}

	return d.Line
}

func lineSortKey(line string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, false
	}

	return id, true
}

func normalizeMAC(raw string) (string, error) {
	hw, err := net.ParseMAC(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadMAC, raw)
	}

	return strings.ToLower(hw.String()), nil
}
