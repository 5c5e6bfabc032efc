package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRating(t *testing.T) {
	assert.False(t, validRating(0))
	assert.True(t, validRating(1))
	assert.True(t, validRating(3))
	assert.True(t, validRating(5))
	assert.False(t, validRating(6))
	assert.False(t, validRating(-1))
}
