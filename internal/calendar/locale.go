package calendar

// Languages supported for weekday headers, indexed by language index.
var Languages = []string{"zh", "jp", "en"}

var weekdayLabels = [][7]string{
	{"一", "二", "三", "四", "五", "六", "日"},
	{"月", "火", "水", "木", "金", "土", "日"},
	{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"},
}

// WeekdayLabels returns Monday-first weekday headers. Unknown indexes fall
// back to the first language.
func WeekdayLabels(langIndex int) [7]string {
	if langIndex < 0 || langIndex >= len(weekdayLabels) {
		langIndex = 0
	}
	return weekdayLabels[langIndex]
}

// LangCode returns the language code for an index.
func LangCode(langIndex int) string {
	if langIndex < 0 || langIndex >= len(Languages) {
		return Languages[0]
	}
	return Languages[langIndex]
}

// LangIndex maps a language code back to its index, -1 if unknown.
func LangIndex(code string) int {
	for i, c := range Languages {
		if c == code {
			return i
		}
	}
	return -1
}
