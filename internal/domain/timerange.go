package domain

import (
	"fmt"
	"time"
)

// Day 表示一周中的某一天，取值与课表中存储的英文名一致
type Day string

const (
	DayMonday    Day = "Monday"
	DayTuesday   Day = "Tuesday"
	DayWednesday Day = "Wednesday"
	DayThursday  Day = "Thursday"
	DayFriday    Day = "Friday"
	DaySaturday  Day = "Saturday"
	DaySunday    Day = "Sunday"
)

// Days 按一周的顺序排列，周一为第一天
var Days = []Day{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday}

func (d Day) IsValid() bool {
	for _, day := range Days {
		if day == d {
			return true
		}
	}
	return false
}

// Index 返回这一天在一周中的序号（周一为 1），非法的天返回 0
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i + 1
		}
	}
	return 0
}

// DayOfDate 返回某个日期对应的那一天
func DayOfDate(t time.Time) Day {
	switch t.Weekday() {
	case time.Monday:
		return DayMonday
	case time.Tuesday:
		return DayTuesday
	case time.Wednesday:
		return DayWednesday
	case time.Thursday:
		return DayThursday
	case time.Friday:
		return DayFriday
	case time.Saturday:
		return DaySaturday
	default:
		return DaySunday
	}
}

// DateOnly 将某个时间归到它所在时区当天的零点。
// 不能用 Truncate(24h)，那是按 UTC 切的，晚上会切到前一天
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TimeRange 表示一天内的一段左闭右开的时间区间 [Start, End)，单位为从零点开始的分钟数
type TimeRange struct {
	Start int
	End   int
}

// ParseClock 解析 HH:MM 格式的时刻，返回从零点开始的分钟数。
// 时和分都必须恰好是两位数字，不接受任何多余字符
func ParseClock(text string) (int, error) {
	if len(text) != 5 || text[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if text[i] < '0' || text[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
		}
	}

	hour := int(text[0]-'0')*10 + int(text[1]-'0')
	minute := int(text[3]-'0')*10 + int(text[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	return hour*60 + minute, nil
}

// FormatClock 将从零点开始的分钟数格式化为 HH:MM
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseTimeRange 由开始和结束时刻构造时间区间，要求结束时刻严格大于开始时刻
func ParseTimeRange(startTime string, endTime string) (TimeRange, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return TimeRange{}, err
	}

	end, err := ParseClock(endTime)
	if err != nil {
		return TimeRange{}, err
	}

	if end <= start {
		return TimeRange{}, fmt.Errorf("%w: %s-%s", ErrInvalidRange, startTime, endTime)
	}

	return TimeRange{Start: start, End: end}, nil
}

// Overlaps 判断两个区间是否重叠，区间为左闭右开，首尾相接不算重叠
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start < other.End && other.Start < tr.End
}

func (tr TimeRange) String() string {
	return FormatClock(tr.Start) + "-" + FormatClock(tr.End)
}
