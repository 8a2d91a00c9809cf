// Package texttime resolves pt-BR date and time expressions against a
// reference date.
package texttime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/guilhermexp/lifebetter/internal/model"
	"github.com/guilhermexp/lifebetter/internal/textnorm"
)

// Resolution holds the calendar fields found in a piece of text. Empty
// fields mean "not present", never "midnight"/"today".
type Resolution struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM, 24h
}

var monthsByName = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"marco":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
}

var weekdaysByName = map[string]time.Weekday{
	"domingo": time.Sunday,
	"segunda": time.Monday,
	"terca":   time.Tuesday,
	"quarta":  time.Wednesday,
	"quinta":  time.Thursday,
	"sexta":   time.Friday,
	"sabado":  time.Saturday,
}

var (
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	textualDateRe = regexp.MustCompile(`\b(\d{1,2}) de ([a-z]+)(?: de (\d{2,4}))?\b`)
	weekdayRe     = regexp.MustCompile(`\b(domingo|segunda|terca|quarta|quinta|sexta|sabado)(?:-feira)?\b`)

	// Explicit H:MM needs no indicator; a bare hour does.
	clockRe         = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	indicatedHourRe = regexp.MustCompile(`\b(?:as|para|de)\s+(\d{1,2})(?::(\d{2}))?h?\b`)
	suffixedHourRe  = regexp.MustCompile(`\b(\d{1,2})\s*h(?:oras?)?(\d{2})?\b`)
	dayPartRe       = regexp.MustCompile(`\b(?:de|da|na|a|pela|para)\s+(manha|tarde|noite)\b`)
)

var dayPartClock = map[string]string{
	"manha": "09:00",
	"tarde": "15:00",
	"noite": "20:00",
}

// Resolve extracts a date and a time from text, trying each rule in order
// and keeping the first match per field. Out-of-range values are discarded
// silently, as if the pattern had not matched.
func Resolve(text string, ref time.Time) Resolution {
	norm := textnorm.Normalize(text)
	return Resolution{
		Date: resolveDate(norm, ref),
		Time: resolveTime(norm),
	}
}

func resolveDate(norm string, ref time.Time) string {
	if d, ok := numericDate(norm, ref); ok {
		return d
	}
	if d, ok := relativeDate(norm, ref); ok {
		return d
	}
	if d, ok := weekdayDate(norm, ref); ok {
		return d
	}
	if d, ok := textualDate(norm, ref); ok {
		return d
	}
	return ""
}

func numericDate(norm string, ref time.Time) (string, bool) {
	m := numericDateRe.FindStringSubmatch(norm)
	if m == nil {
		return "", false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}
	year := ref.Year()
	if m[3] != "" {
		year = normalizeYear(m[3])
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func normalizeYear(s string) int {
	if len(s) == 2 {
		s = "20" + s
	}
	y, _ := strconv.Atoi(s)
	return y
}

func relativeDate(norm string, ref time.Time) (string, bool) {
	switch {
	case strings.Contains(norm, "depois de amanha"):
		return isoDate(ref.AddDate(0, 0, 2)), true
	case strings.Contains(norm, "amanha"):
		return isoDate(ref.AddDate(0, 0, 1)), true
	case strings.Contains(norm, "hoje"):
		return isoDate(ref), true
	}
	return "", false
}

func weekdayDate(norm string, ref time.Time) (string, bool) {
	m := weekdayRe.FindStringSubmatch(norm)
	if m == nil {
		return "", false
	}
	target := weekdaysByName[m[1]]
	offset := (int(target) - int(ref.Weekday()) + 7) % 7
	if strings.Contains(norm, "proxima") || strings.Contains(norm, "proximo") || strings.Contains(norm, "que vem") {
		offset += 7
	}
	return isoDate(ref.AddDate(0, 0, offset)), true
}

func textualDate(norm string, ref time.Time) (string, bool) {
	m := textualDateRe.FindStringSubmatch(norm)
	if m == nil {
		return "", false
	}
	month, ok := monthsByName[m[2]]
	if !ok {
		return "", false
	}
	day, _ := strconv.Atoi(m[1])
	if day < 1 || day > 31 {
		return "", false
	}
	year := ref.Year()
	if m[3] != "" {
		year = normalizeYear(m[3])
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func resolveTime(norm string) string {
	if strings.Contains(norm, "meio-dia") || strings.Contains(norm, "meio dia") {
		return "12:00"
	}
	if strings.Contains(norm, "meia-noite") || strings.Contains(norm, "meia noite") {
		return "00:00"
	}
	for _, re := range []*regexp.Regexp{clockRe, indicatedHourRe, suffixedHourRe} {
		if m := re.FindStringSubmatch(norm); m != nil {
			if t, ok := clockOf(m[1], m[2]); ok {
				return t
			}
		}
	}
	if m := dayPartRe.FindStringSubmatch(norm); m != nil {
		return dayPartClock[m[1]]
	}
	return ""
}

func clockOf(hourStr, minuteStr string) (string, bool) {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}
	if !model.ValidClock(hour, minute) {
		return "", false
	}
	return model.FormatClock(hour*60 + minute), true
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}
