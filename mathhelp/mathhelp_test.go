package mathhelp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetweenInc(t *testing.T) {
	assert.True(t, BetweenInc(5.0, 0.0, 10.0))
	assert.True(t, BetweenInc(5.0, 10.0, 0.0), "bounds may come in any order")
	assert.True(t, BetweenInc(0.0, 0.0, 10.0), "inclusive lower bound")
	assert.True(t, BetweenInc(10.0, 0.0, 10.0), "inclusive upper bound")
	assert.False(t, BetweenInc(-1.0, 0.0, 10.0))
	assert.False(t, BetweenInc(11.0, 10.0, 0.0))
	assert.True(t, BetweenInc(3, 3, 3))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5.0, 0.0, 10.0))
	assert.Equal(t, 0.0, Clamp(-1.0, 0.0, 10.0))
	assert.Equal(t, 10.0, Clamp(11.0, 0.0, 10.0))
	assert.Equal(t, 1.0, Clamp(1.0, 1.0, 1.0))
	assert.Equal(t, 7, Clamp(9, 0, 7))
}
