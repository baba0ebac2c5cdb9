package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	otp := GenerateOTP(6)
	assert.Len(t, otp, 6)
	for _, c := range otp {
		assert.True(t, c >= '0' && c <= '9')
	}

	// Zero and negative lengths fall back to the default
	assert.Len(t, GenerateOTP(0), 6)
}

func TestGenerateOrderID(t *testing.T) {
	id := GenerateOrderID()
	assert.True(t, strings.HasPrefix(id, "ORD-"))

	// Random suffix keeps IDs generated in the same second distinct
	assert.NotEqual(t, id, GenerateOrderID())
}

func TestGenerateVerificationToken(t *testing.T) {
	token := GenerateVerificationToken()
	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, GenerateVerificationToken())
}
