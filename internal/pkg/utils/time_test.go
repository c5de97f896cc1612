package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	raw := func(s string) *string { return &s }

	parsed := ParseTimestamp(raw("2026-05-06T07:08:09+07:00"))
	require.NotNil(t, parsed)
	assert.True(t, parsed.Equal(time.Date(2026, 5, 6, 0, 8, 9, 0, time.UTC)))

	parsed = ParseTimestamp(raw("2026-05-06T07:08:09.123456"))
	require.NotNil(t, parsed)
	assert.Equal(t, time.UTC, parsed.Location())
	assert.Equal(t, 123456000, parsed.Nanosecond())

	parsed = ParseTimestamp(raw("2026-05-06 07:08:09"))
	require.NotNil(t, parsed)
	assert.Equal(t, 7, parsed.Hour())

	assert.Nil(t, ParseTimestamp(nil))
	assert.Nil(t, ParseTimestamp(raw(" ")))
	assert.Nil(t, ParseTimestamp(raw("yesterday")))
}
