// Package id formats and parses the identifiers users type and read.
package id

import (
	"fmt"
	"strconv"
	"strings"
)

const cancelPrefix = "Cancel: "

// Parse parses a positive record ID such as "42" or "#42".
func Parse(s string) (int64, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be positive", s)
	}
	return n, nil
}

// Format returns an ID as shown in listings, like "#42".
func Format(n int64) string {
	return "#" + strconv.FormatInt(n, 10)
}

// CancelDescription returns the description of the reversal of transaction
// txnID, like "Cancel: 42".
func CancelDescription(txnID int64) string {
	return cancelPrefix + strconv.FormatInt(txnID, 10)
}

// ParseCancelDescription reports the transaction a reversal description
// points at.
// "Cancel: 42" -> 42, true
func ParseCancelDescription(desc string) (int64, bool) {
	rest, ok := strings.CutPrefix(desc, cancelPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
