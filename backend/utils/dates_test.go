package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	d, err = ParseDate("2024-03-05T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Day())

	d, err = ParseDate("2024-03-05T10:00:00")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("01/01/2024")
	assert.Error(t, err)
}
