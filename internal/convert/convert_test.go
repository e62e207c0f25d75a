package convert

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestLengthRoundTrip(t *testing.T) {
	values := []float64{0, 0.5, 1, 42, 1234.5678, 1e6}
	units := Length.Units()

	for _, from := range units {
		for _, to := range units {
			for _, v := range values {
				got := ConvertLength(ConvertLength(v, from, to), to, from)
				if !almostEqual(got, v) {
					t.Errorf("round trip %v %s -> %s -> %s = %v", v, from, to, from, got)
				}
			}
		}
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		want     float64
	}{
		{"meters to kilometers", 1000, "Meters", "Kilometers", 1},
		{"kilometers to meters", 1, "Kilometers", "Meters", 1000},
		{"meters to feet", 1, "Meters", "Feet", 3.28084},
		{"meters to miles", 1000, "Meters", "Miles", 0.621371},
		{"same unit", 7, "Feet", "Feet", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertLength(tt.value, tt.from, tt.to); !almostEqual(got, tt.want) {
				t.Errorf("ConvertLength(%v, %s, %s) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestWeight(t *testing.T) {
	if got := ConvertWeight(100, "Kilograms", "Grams"); got != 100000 {
		t.Errorf("ConvertWeight(100, Kilograms, Grams) = %v, want 100000", got)
	}
	if got := ConvertWeight(1, "Kilograms", "Pounds"); !almostEqual(got, 2.20462) {
		t.Errorf("ConvertWeight(1, Kilograms, Pounds) = %v, want 2.20462", got)
	}
	if got := ConvertWeight(35.274, "Ounces", "Kilograms"); !almostEqual(got, 1) {
		t.Errorf("ConvertWeight(35.274, Ounces, Kilograms) = %v, want 1", got)
	}
}

func TestTemperature(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		want     float64
	}{
		{"freezing to fahrenheit", 0, "Celsius", "Fahrenheit", 32},
		{"freezing to celsius", 32, "Fahrenheit", "Celsius", 0},
		{"boiling to fahrenheit", 100, "Celsius", "Fahrenheit", 212},
		{"celsius identity", 100, "Celsius", "Celsius", 100},
		{"fahrenheit identity", -40, "Fahrenheit", "Fahrenheit", -40},
		{"unsupported pair", 10, "Kelvin", "Celsius", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertTemperature(tt.value, tt.from, tt.to); !almostEqual(got, tt.want) {
				t.Errorf("ConvertTemperature(%v, %s, %s) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvertDispatch(t *testing.T) {
	if got := Convert(Length, 1, "Kilometers", "Meters"); !almostEqual(got, 1000) {
		t.Errorf("Convert(Length) = %v, want 1000", got)
	}
	if got := Convert(Weight, 2, "Kilograms", "Grams"); got != 2000 {
		t.Errorf("Convert(Weight) = %v, want 2000", got)
	}
	if got := Convert(Temperature, 0, "Celsius", "Fahrenheit"); got != 32 {
		t.Errorf("Convert(Temperature) = %v, want 32", got)
	}
}

func TestUnknownUnitsLeaveValue(t *testing.T) {
	if got := ConvertLength(5, "Parsecs", "Meters"); got != 5 {
		t.Errorf("unknown source unit changed value: %v", got)
	}
	if got := ConvertWeight(5, "Grams", "Stones"); got != 5 {
		t.Errorf("unknown target unit changed value: %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		value    float64
		wantErr  error
	}{
		{"length zero", Length, 0, nil},
		{"length negative", Length, -0.01, ErrBelowLowerBound},
		{"weight zero", Weight, 0, nil},
		{"weight negative", Weight, -1, ErrBelowLowerBound},
		{"absolute zero", Temperature, -273.15, nil},
		{"below absolute zero", Temperature, -273.16, ErrBelowLowerBound},
		{"negative celsius", Temperature, -40, nil},
		{"nan length", Length, math.NaN(), ErrNotFinite},
		{"inf weight", Weight, math.Inf(1), ErrNotFinite},
		{"nan temperature", Temperature, math.NaN(), ErrNotFinite},
		{"negative inf temperature", Temperature, math.Inf(-1), ErrNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate(tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUnitsAreCopies(t *testing.T) {
	units := Length.Units()
	units[0] = "Furlongs"
	if Length.Units()[0] != "Meters" {
		t.Error("Units() must not expose the internal table")
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in       string
		unit     string
		category Category
		wantErr  bool
	}{
		{"kilograms", "Kilograms", Weight, false},
		{"FEET", "Feet", Length, false},
		{" celsius ", "Celsius", Temperature, false},
		{"kelvin", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			unit, c, err := ParseUnit(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownUnit) {
					t.Fatalf("expected ErrUnknownUnit, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if unit != tt.unit || c != tt.category {
				t.Errorf("ParseUnit(%q) = %s, %s; want %s, %s", tt.in, unit, c, tt.unit, tt.category)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("weight")
	if err != nil || c != Weight {
		t.Errorf("ParseCategory(weight) = %v, %v", c, err)
	}
	if _, err := ParseCategory("volume"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestSentence(t *testing.T) {
	got := Sentence(100, "Kilograms", 100000, "Grams")
	want := "100 Kilograms is equal to 100000.00 Grams"
	if got != want {
		t.Errorf("Sentence() = %q, want %q", got, want)
	}

	got = Sentence(-273.15, "Celsius", -459.67, "Fahrenheit")
	want = "-273.15 Celsius is equal to -459.67 Fahrenheit"
	if got != want {
		t.Errorf("Sentence() = %q, want %q", got, want)
	}
}
