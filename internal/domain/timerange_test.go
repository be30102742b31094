package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "08:30", want: 510},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "missing colon", input: "0830", wantErr: ErrInvalidTimeFormat},
		{name: "too short", input: "8:30", wantErr: ErrInvalidTimeFormat},
		{name: "hour out of range", input: "24:00", wantErr: ErrInvalidTimeFormat},
		{name: "minute out of range", input: "12:60", wantErr: ErrInvalidTimeFormat},
		{name: "not numeric", input: "ab:cd", wantErr: ErrInvalidTimeFormat},
		{name: "trailing garbage in minute", input: "10:3a", wantErr: ErrInvalidTimeFormat},
		{name: "trailing garbage in hour", input: "1a:30", wantErr: ErrInvalidTimeFormat},
		{name: "sign instead of digit", input: "-1:30", wantErr: ErrInvalidTimeFormat},
		{name: "space padded", input: " 9:30", wantErr: ErrInvalidTimeFormat},
		{name: "empty", input: "", wantErr: ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseClock(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name      string
		startTime string
		endTime   string
		want      TimeRange
		wantErr   error
	}{
		{name: "valid", startTime: "09:00", endTime: "10:30", want: TimeRange{Start: 540, End: 630}},
		{name: "end equals start", startTime: "09:00", endTime: "09:00", wantErr: ErrInvalidRange},
		{name: "end before start", startTime: "10:00", endTime: "09:00", wantErr: ErrInvalidRange},
		{name: "bad start", startTime: "9am", endTime: "10:00", wantErr: ErrInvalidTimeFormat},
		{name: "bad end", startTime: "09:00", endTime: "25:00", wantErr: ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeRange(tt.startTime, tt.endTime)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseTimeRange(%q, %q) error = %v, want %v", tt.startTime, tt.endTime, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeRange(%q, %q) unexpected error: %v", tt.startTime, tt.endTime, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeRange(%q, %q) = %+v, want %+v", tt.startTime, tt.endTime, got, tt.want)
			}
		})
	}
}

func TestTimeRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    TimeRange
		b    TimeRange
		want bool
	}{
		{name: "disjoint", a: TimeRange{Start: 540, End: 600}, b: TimeRange{Start: 660, End: 720}, want: false},
		{name: "touching is not overlap", a: TimeRange{Start: 540, End: 600}, b: TimeRange{Start: 600, End: 660}, want: false},
		{name: "partial overlap", a: TimeRange{Start: 540, End: 630}, b: TimeRange{Start: 600, End: 660}, want: true},
		{name: "contained", a: TimeRange{Start: 540, End: 720}, b: TimeRange{Start: 600, End: 660}, want: true},
		{name: "identical", a: TimeRange{Start: 540, End: 600}, b: TimeRange{Start: 540, End: 600}, want: true},
		{name: "one minute overlap", a: TimeRange{Start: 540, End: 601}, b: TimeRange{Start: 600, End: 660}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// 重叠判断是对称的
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestTimeRangeString(t *testing.T) {
	tr := TimeRange{Start: 540, End: 630}
	if got := tr.String(); got != "09:00-10:30" {
		t.Errorf("String() = %q, want %q", got, "09:00-10:30")
	}
}

func TestDayOfDate(t *testing.T) {
	// 2026-08-31 是周一
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	for i, want := range Days {
		date := monday.AddDate(0, 0, i)
		if got := DayOfDate(date); got != want {
			t.Errorf("DayOfDate(%s) = %s, want %s", date.Format("2006-01-02"), got, want)
		}
	}
}

func TestDateOnly(t *testing.T) {
	// 东八区的深夜，按 UTC 截断会落到前一天
	cst := time.FixedZone("CST", 8*60*60)
	evening := time.Date(2026, 8, 30, 23, 30, 0, 0, cst)

	got := DateOnly(evening)
	want := time.Date(2026, 8, 30, 0, 0, 0, 0, cst)
	if !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", evening, got, want)
	}
	if got.Location() != cst {
		t.Errorf("DateOnly 改变了时区: %v", got.Location())
	}
	if DayOfDate(got) != DayOfDate(evening) {
		t.Errorf("DateOnly 改变了日期: %v -> %v", DayOfDate(evening), DayOfDate(got))
	}
}

func TestDayIndex(t *testing.T) {
	if got := DayMonday.Index(); got != 1 {
		t.Errorf("DayMonday.Index() = %d, want 1", got)
	}
	if got := DaySunday.Index(); got != 7 {
		t.Errorf("DaySunday.Index() = %d, want 7", got)
	}
	if got := Day("Funday").Index(); got != 0 {
		t.Errorf("invalid day Index() = %d, want 0", got)
	}
	if Day("Funday").IsValid() {
		t.Error("invalid day reported as valid")
	}
}
