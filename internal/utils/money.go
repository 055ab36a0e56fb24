package utils

import (
	"fmt"
	"math"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// Round2 rounds a monetary amount to two decimals.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// PlatformFee computes the fee taken from the tasker at acceptance.
func PlatformFee(agreedPrice, rate float64) float64 {
	if agreedPrice <= 0 || rate <= 0 {
		return 0
	}
	return Round2(agreedPrice * rate)
}
