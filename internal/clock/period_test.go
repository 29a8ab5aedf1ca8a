package clock

import (
	"fmt"
	"math"
	"testing"
)

func TestPeriodStartOffset(t *testing.T) {
	for _, p := range []Period{P1, P2, P3} {
		want := (p.Index() - 1) * 1200
		if got := p.StartOffset(); got != want {
			t.Fatalf("%s start offset = %d, want %d", p, got, want)
		}
	}
	if got := OT.StartOffset(); got != 2400 {
		t.Fatalf("OT start offset = %d, want 2400", got)
	}
}

func TestPeriodIndex(t *testing.T) {
	want := map[Period]int{P1: 1, P2: 2, P3: 3, OT: 4, Period("P9"): 0}
	for p, idx := range want {
		if got := p.Index(); got != idx {
			t.Fatalf("%s index = %d, want %d", p, got, idx)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{"P1": P1, "2": P2, " p3 ": P3, "ot": OT, "4": OT}
	for in, want := range cases {
		got, err := ParsePeriod(in)
		if err != nil {
			t.Fatalf("ParsePeriod(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParsePeriod(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParsePeriod("P5"); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestFormatTime(t *testing.T) {
	cases := map[int]string{0: "00:00", 5: "00:05", 330: "05:30", 1199: "19:59", 4323: "72:03", -3: "00:00"}
	for in, want := range cases {
		if got := FormatTime(in); got != want {
			t.Fatalf("FormatTime(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestParseTimeIsTotal(t *testing.T) {
	cases := map[string]int{
		"05:30":   330,
		"00:00":   0,
		"72:03":   4323,
		"7":       420,
		"07:":     420,
		"07:xx":   420,
		"abc:12":  12,
		"":        0,
		":":       0,
		"-5:10":   10,
		"1:2:3":   60,
		"x":       0,
		" 10:00 ": 600,

		"200000000000000000:00":  0,
		"200000000000000000:15":  15,
		"99999999999999999999:5": 5,
	}
	for in, want := range cases {
		if got := ParseTime(in); got != want {
			t.Fatalf("ParseTime(%q) = %d, want %d", in, got, want)
		}
	}

	// Largest minutes value that still fits; seconds that would overflow drop to zero.
	edge := fmt.Sprintf("%d:%d", maxMinutes, math.MaxInt)
	if got := ParseTime(edge); got != maxMinutes*60 {
		t.Fatalf("ParseTime(%q) = %d, want %d", edge, got, maxMinutes*60)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for m := 0; m < 100; m += 7 {
		for s := 0; s < 60; s += 11 {
			in := FormatTime(m*60 + s)
			if got := FormatTime(ParseTime(in)); got != in {
				t.Fatalf("round trip %s = %s", in, got)
			}
		}
	}
}

func TestRankingOffset(t *testing.T) {
	if got := RankingOffset(P1, "05:30"); got != 1200+330 {
		t.Fatalf("P1 05:30 ranking = %d, want %d", got, 1530)
	}
	if got := RankingOffset(OT, "00:10"); got != 4800+10 {
		t.Fatalf("OT 00:10 ranking = %d, want %d", got, 4810)
	}
	if RankingOffset(P3, "19:59") >= RankingOffset(OT, "00:00") {
		t.Fatal("late P3 event must rank before the start of OT")
	}
}
