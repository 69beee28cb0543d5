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
		{"100.00", 10000, true},
		{"-1", 0, false},
		{"+1", 0, false},
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

func TestSplitEven(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		n     int
		want  []int64
	}{
		{"exact division", 1000, 4, []int64{250, 250, 250, 250}},
		{"one cent remainder", 10000, 3, []int64{3334, 3333, 3333}},
		{"two cent remainder", 1001, 3, []int64{334, 334, 333}},
		{"single installment", 999, 1, []int64{999}},
		{"more parts than cents", 2, 3, []int64{1, 1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts := SplitEven(Money{Cents: tc.total}, tc.n)
			if len(parts) != len(tc.want) {
				t.Fatalf("expected %d parts, got %d", len(tc.want), len(parts))
			}
			var sum int64
			for i, p := range parts {
				if p.Cents != tc.want[i] {
					t.Errorf("part %d: expected %d, got %d", i, tc.want[i], p.Cents)
				}
				sum += p.Cents
			}
			if sum != tc.total {
				t.Errorf("parts sum to %d, want %d", sum, tc.total)
			}
		})
	}
}

func TestSplitEvenInvalidCount(t *testing.T) {
	if parts := SplitEven(Money{Cents: 100}, 0); parts != nil {
		t.Fatalf("expected nil for count 0, got %v", parts)
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{3334, "33.34"},
		{100, "1.00"},
		{1, "0.01"},
		{0, "0.00"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := Money{Cents: 3334}
	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "33.34" {
		t.Fatalf("expected 33.34, got %s", data)
	}

	var back Money
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Cents != 3334 {
		t.Fatalf("expected 3334 cents, got %d", back.Cents)
	}
}
