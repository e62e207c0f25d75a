// Package convert implements the unit conversions offered by measure:
// length and weight through fixed factor tables, temperature through a
// pairwise formula.
package convert

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a family of units that can be converted into one another.
type Category int

const (
	// Length converts between metric and imperial distances.
	Length Category = iota
	// Weight converts between metric and imperial masses.
	Weight
	// Temperature converts between Celsius and Fahrenheit.
	Temperature
)

// Categories lists every category in the order the form presents them.
var Categories = []Category{Length, Weight, Temperature}

// AbsoluteZero is the lowest temperature the form accepts.
const AbsoluteZero = -273.15

var (
	// ErrBelowLowerBound is returned when a value is smaller than the
	// category allows.
	ErrBelowLowerBound = errors.New("value below lower bound")

	// ErrNotFinite is returned for NaN and infinite values.
	ErrNotFinite = errors.New("value is not a finite number")

	// ErrUnknownCategory is returned for a category name that does not exist.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownUnit is returned for a unit name no category knows.
	ErrUnknownUnit = errors.New("unknown unit")
)

// Factor tables are expressed as "units per base unit" (meters, kilograms).
var (
	lengthFactors = map[string]float64{
		"Meters":     1,
		"Kilometers": 0.001,
		"Miles":      0.000621371,
		"Feet":       3.28084,
	}
	weightFactors = map[string]float64{
		"Kilograms": 1,
		"Grams":     1000,
		"Pounds":    2.20462,
		"Ounces":    35.274,
	}

	lengthUnits      = []string{"Meters", "Kilometers", "Miles", "Feet"}
	weightUnits      = []string{"Kilograms", "Grams", "Pounds", "Ounces"}
	temperatureUnits = []string{"Celsius", "Fahrenheit"}

	titleCaser = cases.Title(language.English)
)

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case Length:
		return "Length"
	case Weight:
		return "Weight"
	case Temperature:
		return "Temperature"
	default:
		return "unknown"
	}
}

// Units returns the valid unit names of the category, in display order.
func (c Category) Units() []string {
	var units []string
	switch c {
	case Length:
		units = lengthUnits
	case Weight:
		units = weightUnits
	case Temperature:
		units = temperatureUnits
	}
	out := make([]string, len(units))
	copy(out, units)
	return out
}

// LowerBound is the smallest value the category accepts as input.
func (c Category) LowerBound() float64 {
	if c == Temperature {
		return AbsoluteZero
	}
	return 0
}

// Validate reports whether value is acceptable input for the category.
func (c Category) Validate(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s", ErrNotFinite, FormatValue(value))
	}
	if value < c.LowerBound() {
		return fmt.Errorf("%w: %s must be at least %s", ErrBelowLowerBound, c, FormatValue(c.LowerBound()))
	}
	return nil
}

// HasUnit reports whether unit belongs to the category.
func (c Category) HasUnit(unit string) bool {
	for _, u := range c.Units() {
		if u == unit {
			return true
		}
	}
	return false
}

// ConvertLength converts value between two length units.
func ConvertLength(value float64, from, to string) float64 {
	return byFactor(lengthFactors, value, from, to)
}

// ConvertWeight converts value between two weight units.
func ConvertWeight(value float64, from, to string) float64 {
	return byFactor(weightFactors, value, from, to)
}

// ConvertTemperature converts value between Celsius and Fahrenheit. Any other
// pair, equal units included, returns value unchanged.
func ConvertTemperature(value float64, from, to string) float64 {
	switch {
	case from == "Celsius" && to == "Fahrenheit":
		return value*9/5 + 32
	case from == "Fahrenheit" && to == "Celsius":
		return (value - 32) * 5 / 9
	}
	return value
}

// Convert dispatches to the converter of the given category.
func Convert(c Category, value float64, from, to string) float64 {
	switch c {
	case Length:
		return ConvertLength(value, from, to)
	case Weight:
		return ConvertWeight(value, from, to)
	case Temperature:
		return ConvertTemperature(value, from, to)
	}
	return value
}

// byFactor applies value × factor[to] / factor[from]. Units missing from the
// table leave the value as is.
func byFactor(factors map[string]float64, value float64, from, to string) float64 {
	ff, ok := factors[from]
	if !ok {
		return value
	}
	tf, ok := factors[to]
	if !ok {
		return value
	}
	return value * tf / ff
}

// ParseCategory looks up a category by name, ignoring case.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(c.String(), strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// ParseUnit normalizes a unit name ("kilograms", "FEET") and returns it with
// the category it belongs to.
func ParseUnit(name string) (string, Category, error) {
	unit := titleCaser.String(strings.TrimSpace(name))
	for _, c := range Categories {
		if c.HasUnit(unit) {
			return unit, c, nil
		}
	}
	return "", 0, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
}
