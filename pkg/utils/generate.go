package utils

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateVerificationToken creates the opaque single-use token mailed out
// after registration.
func GenerateVerificationToken() string {
	return uuid.New().String()
}

// ==================== OTP ====================

// GenerateOTP creates a numeric OTP of specified length. Codes are secrets,
// so digits come from crypto/rand.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	ten := big.NewInt(10)
	digits := make([]byte, length)
	for i := range digits {
		n, err := crand.Int(crand.Reader, ten)
		if err != nil {
			digits[i] = byte('0' + rand.Intn(10))
			continue
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits)
}

// ==================== ORDER ID ====================

// GenerateOrderID creates a unique public order ID with timestamp. The
// suffix is not a secret, math/rand is enough.
func GenerateOrderID() string {
	now := time.Now()

	// Format: ORD-YYYYMMDD-HHMMSS-RANDOM
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("ORD-%s-%s-%s", datePart, timePart, randomPart)
}
