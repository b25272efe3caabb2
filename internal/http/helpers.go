package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"budget/internal/core"
)

// parseDate parses a form date in YYYY-MM-DD format, defaulting to today
// when the field is empty.
func parseDate(dateStr string) (core.Date, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return core.Today(), nil
	}
	return core.ParseDate(dateStr)
}

// formatDollars formats cents as a currency string (e.g., "$12.34").
func formatDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// formatDollarsLong appends the currency code for the summary cards.
func formatDollarsLong(cents int64) string {
	return formatDollars(cents) + " CAD"
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
