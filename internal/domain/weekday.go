package domain

// Weekdays is the fixed 7-value enumeration used by a group's days field.
// Order matches the presentation order of the admin UI; the stored set itself
// is unordered.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// IsWeekday reports whether s is a member of the weekday enumeration.
func IsWeekday(s string) bool {
	for _, d := range Weekdays {
		if d == s {
			return true
		}
	}
	return false
}
