package convert

import (
	"fmt"
	"strconv"
)

// FormatValue renders an input value the way the user typed it, without
// trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatResult renders a converted value with two decimals.
func FormatResult(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Sentence is the spoken and displayed form of a conversion.
func Sentence(value float64, from string, result float64, to string) string {
	return fmt.Sprintf("%s %s is equal to %s %s", FormatValue(value), from, FormatResult(result), to)
}
