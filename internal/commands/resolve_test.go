package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryFlag(t *testing.T) {
	e, err := parseEntryFlag("Cash:10")
	require.NoError(t, err)
	assert.Equal(t, "Cash", e.account)
	assert.Equal(t, "10", e.value.String())
	assert.Equal(t, "10", e.quantity.String())
	assert.Empty(t, e.asset)

	e, err = parseEntryFlag("Shares Issued:-500:ACME:-5")
	require.NoError(t, err)
	assert.Equal(t, "Shares Issued", e.account)
	assert.Equal(t, "ACME", e.asset)
	assert.Equal(t, "-5", e.quantity.String())

	for _, bad := range []string{"Cash", ":10", "Cash:ten", "Cash:1:USD:x", "a:1:b:2:c"} {
		_, err := parseEntryFlag(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseWhen(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := parseWhen("", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = parseWhen("2025-01-15", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = parseWhen("2025-01-15T10:00:00+02:00", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)))

	_, err = parseWhen("yesterday", now)
	assert.Error(t, err)
}

func TestParseAsOf(t *testing.T) {
	got, err := parseAsOf("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 23, 59, 59, 999_000_000, time.UTC), got)

	got, err = parseAsOf("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
