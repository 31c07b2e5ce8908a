package utils

import (
	"testing"
)

func TestGenerateFilename(t *testing.T) {
	cases := []struct {
		name   string
		trange [2]string
		want   string
	}{
		{
			name:   "hour and minute",
			trange: [2]string{"2017-06-17/20:00", "2017-06-17/21:00"},
			want:   "CurveGSM_rg_tqf_2017-06-17_2000--2017-06-17_2100_tim1.csv",
		},
		{
			name:   "date only",
			trange: [2]string{"2017-05-28", "2017-05-29"},
			want:   "CurveGSM_rg_tqf_2017-05-28--2017-05-29_tim1.csv",
		},
		{
			name:   "only end has time",
			trange: [2]string{"2017-05-28", "2017-05-29/12:02:01"},
			want:   "CurveGSM_rg_tqf_2017-05-28_--2017-05-29_1202_tim1.csv",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GenerateFilename(tc.trange, "CurveGSM_rg_tqf_", "_tim1"); got != tc.want {
				t.Fatalf("GenerateFilename = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	start, end, err := ParseTimeRange([2]string{"2017-06-17/20:00", "2017-06-17/21:00"})
	if err != nil {
		t.Fatalf("ParseTimeRange: %v", err)
	}
	if start != 1497729600 {
		t.Errorf("start = %v, want 1497729600", start)
	}
	if end-start != 3600 {
		t.Errorf("span = %v, want 3600", end-start)
	}

	if _, _, err := ParseTimeRange([2]string{"2017-06-17", "2017-06-16"}); err == nil {
		t.Error("expected error for reversed range")
	}
	if _, _, err := ParseTimeRange([2]string{"17/06/2017", "2017-06-18"}); err == nil {
		t.Error("expected error for malformed start")
	}
}

func TestParseTimeWithSeconds(t *testing.T) {
	got, err := ParseTime("2017-05-29/12:02:01")
	if err != nil {
		t.Fatal(err)
	}
	if got != 1496059321 {
		t.Fatalf("ParseTime = %v", got)
	}
}

func TestReplaceExt(t *testing.T) {
	if got := ReplaceExt("CurveGSM_2017-05-28--2017-05-29_tim1.csv", ".db"); got != "CurveGSM_2017-05-28--2017-05-29_tim1.db" {
		t.Fatalf("ReplaceExt = %q", got)
	}
}

func TestSeriesNameAndFPIRate(t *testing.T) {
	if got := SeriesName("3", "mec_mlt"); got != "mms3_mec_mlt" {
		t.Errorf("SeriesName = %q", got)
	}
	if FPIDataRate("srvy") != "fast" || FPIDataRate("brst") != "brst" {
		t.Error("FPIDataRate mapping wrong")
	}
}
