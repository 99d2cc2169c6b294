package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseMoney(t *testing.T) {
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
		{".5", 50, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"-12,345", -1235, true},
		{"+3", 300, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{".", 0, false},
		{"1e3", 0, false},
		{"92233720368547758.07", math.MaxInt64, true},
		{"-92233720368547758.07", -math.MaxInt64, true},
		{"92233720368547758.08", 0, false},
		{"92233720368547758.075", 0, false}, // rounds past the largest amount
		{"92233720368547757.995", 9223372036854775800, true},
		{"92233720368547759", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		1250:   "12.50",
		-305:   "-3.05",
		100000: "1000.00",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Fatalf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var in struct {
		A Money  `json:"a"`
		B Money  `json:"b"`
		C *Money `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12.5, "b": "-7,25", "c": null}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.A.Cents != 1250 || in.B.Cents != -725 || in.C != nil {
		t.Fatalf("unexpected values: %+v", in)
	}

	out, err := json.Marshal(struct {
		A Money `json:"a"`
	}{A: Money{Cents: 1999}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":"19.99"}` {
		t.Fatalf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"a": "lots"}`), &in); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestMoneyScan(t *testing.T) {
	cases := []struct {
		src  any
		want int64
	}{
		{nil, 0},
		{int64(1234), 1234},
		{float64(99.6), 100},
		{"4500", 4500},
		{[]byte("-20"), -20},
		{"310.000", 310},
	}
	for i, tc := range cases {
		var m Money
		if err := m.Scan(tc.src); err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if m.Cents != tc.want {
			t.Fatalf("case %d: got %d, want %d", i, m.Cents, tc.want)
		}
	}
}
