package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformFee(t *testing.T) {
	assert.Equal(t, 10.0, PlatformFee(100, 0.10))
	assert.Equal(t, 3.33, PlatformFee(33.33, 0.10))
	assert.Equal(t, 0.01, PlatformFee(0.05, 0.10))
	assert.Equal(t, 0.0, PlatformFee(0, 0.10))
	assert.Equal(t, 0.0, PlatformFee(-50, 0.10))
	assert.Equal(t, 0.0, PlatformFee(100, 0))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, -1.23, Round2(-1.234))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "10.00", FormatMoney(10))
	assert.Equal(t, "3.33", FormatMoney(3.333))
	assert.Equal(t, "0.00", FormatMoney(0))
}
