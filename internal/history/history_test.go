package history

import (
	"fmt"
	"testing"

	"github.com/charmbracelet/measure/internal/convert"
)

func TestRecentWindow(t *testing.T) {
	tests := []struct {
		name      string
		appended  int
		wantLen   int
		wantFirst float64
	}{
		{"empty", 0, 0, 0},
		{"fewer than limit", 3, 3, 1},
		{"exactly limit", 5, 5, 1},
		{"more than limit", 8, 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLog()
			for i := 1; i <= tt.appended; i++ {
				l.Append(NewRecord(convert.Length, float64(i), "Meters", "Feet"))
			}

			got := l.Recent(DisplayLimit)
			if len(got) != tt.wantLen {
				t.Fatalf("Recent(%d) returned %d records, want %d", DisplayLimit, len(got), tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			if got[0].InputValue != tt.wantFirst {
				t.Errorf("first record = %v, want %v", got[0].InputValue, tt.wantFirst)
			}
			for i := 1; i < len(got); i++ {
				if got[i].InputValue != got[i-1].InputValue+1 {
					t.Errorf("records out of order: %v after %v", got[i].InputValue, got[i-1].InputValue)
				}
			}
			if last := got[len(got)-1].InputValue; last != float64(tt.appended) {
				t.Errorf("last record = %v, want %v", last, tt.appended)
			}
		})
	}
}

func TestAppendKeepsDuplicates(t *testing.T) {
	l := NewLog()
	r := NewRecord(convert.Weight, 1, "Kilograms", "Grams")
	l.Append(r)
	l.Append(r)

	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestStorageIsUnbounded(t *testing.T) {
	l := NewLog()
	for i := 0; i < 1000; i++ {
		l.Append(NewRecord(convert.Weight, float64(i), "Grams", "Kilograms"))
	}
	if l.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", l.Len())
	}
	if got := l.Recent(2000); len(got) != 1000 {
		t.Errorf("Recent(2000) returned %d records", len(got))
	}
}

func TestRecentNonPositive(t *testing.T) {
	l := NewLog()
	l.Append(NewRecord(convert.Length, 1, "Meters", "Feet"))

	for _, n := range []int{0, -1} {
		if got := l.Recent(n); got != nil {
			t.Errorf("Recent(%d) = %v, want nil", n, got)
		}
	}
}

func TestRecentReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Append(NewRecord(convert.Length, 1, "Meters", "Feet"))

	got := l.Recent(1)
	got[0].InputValue = 99

	if l.Recent(1)[0].InputValue != 1 {
		t.Error("Recent() must not expose stored records")
	}
}

func TestClear(t *testing.T) {
	l := NewLog()
	l.Append(NewRecord(convert.Length, 1, "Meters", "Feet"))
	l.Clear()

	if l.Len() != 0 || l.Recent(DisplayLimit) != nil {
		t.Error("Clear() should empty the log")
	}
}

func TestNewRecordCapturesResult(t *testing.T) {
	r := NewRecord(convert.Temperature, 100, "Celsius", "Fahrenheit")
	if r.ToValue != 212 {
		t.Errorf("ToValue = %v, want 212", r.ToValue)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestRecordString(t *testing.T) {
	tests := []struct {
		record Record
		line   string
		spoken string
	}{
		{
			NewRecord(convert.Weight, 100, "Kilograms", "Grams"),
			"100 Kilograms = 100000.00 Grams",
			"100 Kilograms is equal to 100000.00 Grams",
		},
		{
			NewRecord(convert.Length, 2.5, "Kilometers", "Meters"),
			"2.5 Kilometers = 2500.00 Meters",
			"2.5 Kilometers is equal to 2500.00 Meters",
		},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.record.InputValue), func(t *testing.T) {
			if got := tt.record.String(); got != tt.line {
				t.Errorf("String() = %q, want %q", got, tt.line)
			}
			if got := tt.record.Sentence(); got != tt.spoken {
				t.Errorf("Sentence() = %q, want %q", got, tt.spoken)
			}
		})
	}
}
