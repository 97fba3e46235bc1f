package matchday

import (
	"fmt"
	"strings"
)

// Day names one of the rolling pages the publisher maintains.
type Day string

const (
	Yesterday Day = "yesterday"
	Today     Day = "today"
	Tomorrow  Day = "tomorrow"
)

// DefaultPlan is the full rolling window, in publish order.
var DefaultPlan = Plan{Yesterday, Today, Tomorrow}

var offsets = map[Day]int{
	Yesterday: -1,
	Today:     0,
	Tomorrow:  1,
}

var tabLabels = map[Day]string{
	Yesterday: "الأمس",
	Today:     "مباريات اليوم",
	Tomorrow:  "الغد",
}

var titles = map[Day]string{
	Yesterday: "مباريات الأمس",
	Today:     "مباريات اليوم",
	Tomorrow:  "مباريات الغد",
}

// ParseDay accepts a case-insensitive day name.
func ParseDay(raw string) (Day, error) {
	day := Day(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := offsets[day]; !ok {
		return "", fmt.Errorf("unknown day %q", raw)
	}
	return day, nil
}

// Offset is the number of calendar days from today.
func (d Day) Offset() int {
	return offsets[d]
}

// TabLabel is the short label shown in the page's day switcher.
func (d Day) TabLabel() string {
	return tabLabels[d]
}

// Title is the page/post title used when the target has to be created.
func (d Day) Title() string {
	return titles[d]
}

// Slug returns the WordPress slug for the day, e.g. "matches-today".
func (d Day) Slug(prefix string) string {
	return prefix + string(d)
}

// Path returns the site-relative URL the tab links to.
func (d Day) Path(prefix string) string {
	return "/" + d.Slug(prefix) + "/"
}

// Plan is the ordered list of days a run publishes.
type Plan []Day

// ParsePlan converts configured day names into a Plan, preserving order.
func ParsePlan(names []string) (Plan, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("empty day plan")
	}
	plan := make(Plan, 0, len(names))
	for _, name := range names {
		day, err := ParseDay(name)
		if err != nil {
			return nil, err
		}
		plan = append(plan, day)
	}
	return plan, nil
}
