package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  any
		out float64
		ok  bool
	}{
		{12.5, 12.5, true},
		{-3.0, -3, true},
		{"12,50", 12.5, true},
		{"7", 7, true},
		{"0", 0, true},
		{"-5", -5, true},
		{"+2.5", 2.5, true},
		{" -1,25 ", -1.25, true},
		{"-", 0, false},
		{".", 0, false},
		{"abc", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || got != tc.out) {
			t.Fatalf("%v expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%v expected error", tc.in)
		}
	}
}

func TestMoneyAccumulatesInCents(t *testing.T) {
	total := MoneyOf(0.1).Add(MoneyOf(0.2))
	if total.Float() != 0.3 {
		t.Fatalf("expected 0.3, got %v", total.Float())
	}
}
