package util

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashUUID(t *testing.T) {
	type key struct {
		Bits  int
		Slope float64
	}
	a := HashUUID(key{Bits: 12, Slope: 1})
	b := HashUUID(key{Bits: 12, Slope: 1})
	c := HashUUID(key{Bits: 16, Slope: 1})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
	// NaN cannot be marshalled
	assert.Equal(t, "", HashUUID(math.NaN()))
}
