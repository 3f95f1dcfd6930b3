package calculator

import (
	"math"
	"strconv"
)

// FormatFixed renders v with the given number of decimals, rounding half away from zero
func FormatFixed(v float64, decimals int) string {
	p := math.Pow10(decimals)
	return strconv.FormatFloat(math.Round(v*p)/p, 'f', decimals, 64)
}

// FormatHours renders an hour amount with one decimal ("8.5")
func FormatHours(v float64) string {
	return FormatFixed(v, 1)
}

// FormatMoney renders a USD amount without decimals ("680")
func FormatMoney(v float64) string {
	return FormatFixed(v, 0)
}
