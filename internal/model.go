package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Habit struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"-"`
	Title      string    `json:"title"`
	ColorHex   string    `json:"colorHex"`
	IsArchived bool      `json:"isArchived"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DefaultHabitColor is applied when a habit is created without a color.
const DefaultHabitColor = "#3B82F6"

type DailyLog struct {
	ID          int64     `json:"id"`
	HabitID     int64     `json:"habitId"`
	Date        Date      `json:"date"`
	IsCompleted bool      `json:"isCompleted"`
	LoggedAt    time.Time `json:"loggedAt"`
}

type MonthlyMeta struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	TargetDate  string    `json:"targetDate"` // "YYYY-MM"
	Description string    `json:"description"`
	IsDone      bool      `json:"isDone"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MonthlyReview struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"-"`
	TargetDate string    `json:"targetDate"` // "YYYY-MM"
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Date is a calendar day with no time component and no timezone. It is
// comparable, so it can serve inside composite map keys.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

func ParseYearMonth(s string) (YearMonth, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return YearMonth{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("invalid month %q: month must be 1-12", s)
	}
	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Days returns the length of the month, leap years included.
func (m YearMonth) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m YearMonth) Contains(d Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// CompletionKey identifies one (habit, day) cell of the calendar. The wire
// form "{habitID}-{YYYY-MM-DD}" exists only at the JSON boundary.
type CompletionKey struct {
	HabitID int64
	Date    Date
}

func (k CompletionKey) String() string {
	return fmt.Sprintf("%d-%s", k.HabitID, k.Date)
}

// CompletionMap records which (habit, day) cells were completed. Only true
// entries are ever stored; absence means not completed.
type CompletionMap map[CompletionKey]bool

func (m CompletionMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k.String()] = v
	}
	return json.Marshal(out)
}

func (m *CompletionMap) UnmarshalJSON(b []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(CompletionMap, len(raw))
	for s, v := range raw {
		i := strings.Index(s, "-")
		if i < 0 {
			return fmt.Errorf("invalid completion key %q", s)
		}
		id, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid completion key %q: %w", s, err)
		}
		date, err := ParseDate(s[i+1:])
		if err != nil {
			return fmt.Errorf("invalid completion key %q: %w", s, err)
		}
		out[CompletionKey{HabitID: id, Date: date}] = v
	}
	*m = out
	return nil
}
