package utils

import (
	"math"
	"testing"
	"time"
)

func TestIsNumericLiteral(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"":       false,
		"  ":     false,
		"42":     true,
		" 3.5 ":  true,
		"-7":     true,
		"1e3":    true,
		"2.5E-2": true,
		"0x10":   false,
		"Inf":    false,
		"-Inf":   false,
		"NaN":    false,
		"1e999":  false,
		"12abc":  false,
		"1.2.3":  false,
		"e":      false,
	}
	for in, want := range cases {
		if got := IsNumericLiteral(in); got != want {
			t.Errorf("IsNumericLiteral(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   interface{}
		want float64
	}{
		{float64(2.5), 2.5},
		{int(3), 3},
		{int64(-4), -4},
		{int32(5), 5},
		{uint8(6), 6},
		{true, 1},
		{false, 0},
		{"1e3", 1000},
		{" 12 ", 12},
	}
	for _, tt := range tests {
		if got := Numeric(tt.in); got != tt.want {
			t.Errorf("Numeric(%#v): got %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []interface{}{nil, "", "0x10", "Inf", "abc", map[string]interface{}{}, []interface{}{1}} {
		if got := Numeric(in); !math.IsNaN(got) {
			t.Errorf("Numeric(%#v): got %v, want NaN", in, got)
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{float64(2), "2"},
		{float64(2.5), "2.5"},
		{float64(1e21), "1000000000000000000000"},
		{float32(0.5), "0.5"},
		{int(7), "7"},
		{int64(-8), "-8"},
		{uint16(9), "9"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := String(tt.in); got != tt.want {
			t.Errorf("String(%#v): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	if got := ParseValue(" 10 "); got != float64(10) {
		t.Fatalf("ParseValue number: got %#v", got)
	}
	if got := ParseValue("true"); got != true {
		t.Fatalf("ParseValue bool: got %#v", got)
	}
	if got := ParseValue(" 0x10 "); got != "0x10" {
		t.Fatalf("ParseValue hex: got %#v", got)
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	if got := ParseDuration("5m", time.Second); got != 5*time.Minute {
		t.Fatalf("got %v, want 5m", got)
	}
	for _, in := range []string{"", "soon", "-1s"} {
		if got := ParseDuration(in, time.Second); got != time.Second {
			t.Fatalf("ParseDuration(%q): got %v, want fallback", in, got)
		}
	}
}
