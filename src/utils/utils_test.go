package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 16.071, RoundFloat(16.0714285, 3))
	assert.Equal(t, 16.072, RoundFloat(16.0715, 3))
	assert.Equal(t, -2.5, RoundFloat(-2.4999, 2))
	assert.Equal(t, 100.0, RoundFloat(100, 3))
}

func TestRoundPtr(t *testing.T) {
	assert.Nil(t, RoundPtr(nil, 3))

	v := 1.23456
	rounded := RoundPtr(&v, 3)
	assert.Equal(t, 1.235, *rounded)
	assert.Equal(t, 1.23456, v, "input is left untouched")
}
