package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"#7", 7, false},
		{" 3 ", 3, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "#42", Format(42))
	n, err := Parse(Format(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestCancelDescription(t *testing.T) {
	assert.Equal(t, "Cancel: 12", CancelDescription(12))

	n, ok := ParseCancelDescription("Cancel: 12")
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)

	for _, desc := range []string{"Deposit", "Cancel: x", "Cancel: 0", "cancel: 3"} {
		_, ok := ParseCancelDescription(desc)
		assert.False(t, ok, desc)
	}
}
