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

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Status is the canonical three-state line status. Every ingestion point
// (snapshot load, push update, batch update) must go through
// NormalizeStatus; the raw vocabulary coming off the wire is not stable.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusProcessing Status = "processing"
	StatusFault      Status = "fault"
)

// Statuses lists the canonical statuses in display order.
func Statuses() []Status {
	return []Status{StatusNormal, StatusProcessing, StatusFault}
}

var diacriticFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Map(func(r rune) rune {
		switch r {
		case 'đ':
			return 'd'
		case 'Đ':
			return 'D'
		}
		return r
	}),
	norm.NFC,
)

// FoldString lowercases a string and strips diacritics, so that
// Vietnamese labels match their ASCII aliases ("Lỗi" -> "loi").
func FoldString(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		folded = s
	}

	return strings.ToLower(folded)
}

// NormalizeSearch prepares a user search term for matching: trim,
// lowercase, diacritic fold.
func NormalizeSearch(term string) string {
	return FoldString(strings.TrimSpace(term))
}

// NormalizeStatus maps the heterogeneous status vocabulary to the
// canonical enum. Unknown, empty, and resolved states ("done", "ack")
// all collapse to normal. Internal whitespace is dropped so "bảo trì"
// matches the "baotri" alias.
func NormalizeStatus(raw string) Status {
	s := strings.ReplaceAll(FoldString(strings.TrimSpace(raw)), " ", "")

	switch s {
	case "processing", "maintain", "baotri":
		return StatusProcessing
	case "fault", "error", "loi", "failed":
		return StatusFault
	default:
		return StatusNormal
	}
}
