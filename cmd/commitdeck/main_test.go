package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	start, end, err := parseWindow("2024-03-01", "2024-03-31")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	// The until date is inclusive: the bound is the following midnight so the
	// last day's final second still matches.
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), end)

	lastSecond := time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC)
	assert.True(t, lastSecond.Before(end))
}

func TestParseWindowRejectsBadDates(t *testing.T) {
	_, _, err := parseWindow("March 1", "2024-03-31")
	assert.Error(t, err)

	_, _, err = parseWindow("2024-03-01", "31/03/2024")
	assert.Error(t, err)
}
