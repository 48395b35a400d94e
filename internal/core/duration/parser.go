// Package duration parses the free-form durations accepted by `tt time log`.
//
// Grammars, first match wins:
//
//	1h30m, 2h, 45m   compound clock form
//	1:30             hours and two-digit minutes
//	90               bare integer, minutes
//	3.5              decimal, hours
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-tt/internal/core/model"
)

// maxDuration keeps every grammar clear of time.Duration overflow.
const maxDuration = 100000 * time.Hour

var (
	compoundPattern = regexp.MustCompile(`^(?:(\d+)\s*h)?\s*(?:(\d+)\s*m)?$`)
	colonPattern    = regexp.MustCompile(`^(\d+):(\d{2})$`)
	integerPattern  = regexp.MustCompile(`^\d+$`)
	decimalPattern  = regexp.MustCompile(`^(?:\d+\.\d*|\.\d+)$`)
)

type grammar struct {
	name  string
	parse func(text string) (time.Duration, bool, string)
}

var grammars = []grammar{
	{name: "compound", parse: parseCompound},
	{name: "colon", parse: parseColon},
	{name: "integer", parse: parseInteger},
	{name: "decimal", parse: parseDecimal},
}

// Parse converts text into a duration. It is pure: the same input always
// yields the same result. Failures are *model.ParseError values carrying the
// original input.
func Parse(text string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, &model.ParseError{Input: text, Reason: "empty duration"}
	}
	if strings.Contains(s, "-") {
		return 0, &model.ParseError{Input: text, Reason: "negative values are not allowed"}
	}

	for _, g := range grammars {
		d, matched, reason := g.parse(s)
		if !matched {
			continue
		}
		if reason != "" {
			return 0, &model.ParseError{Input: text, Reason: reason}
		}
		return d, nil
	}

	return 0, &model.ParseError{
		Input:  text,
		Reason: "expected 1h30m, 45m, 1:30, 90 (minutes) or 3.5 (hours)",
	}
}

// parseCompound returns matched=false when s is not in the clock form at all,
// and a non-empty reason when it is but a value is unusable.
func parseCompound(s string) (time.Duration, bool, string) {
	m := compoundPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, false, ""
	}
	hours, err := atoi(m[1])
	if err != nil {
		return 0, true, err.Error()
	}
	minutes, err := atoi(m[2])
	if err != nil {
		return 0, true, err.Error()
	}
	return combine(hours, minutes)
}

func parseColon(s string) (time.Duration, bool, string) {
	m := colonPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false, ""
	}
	hours, err := atoi(m[1])
	if err != nil {
		return 0, true, err.Error()
	}
	minutes, err := atoi(m[2])
	if err != nil {
		return 0, true, err.Error()
	}
	if minutes >= 60 {
		return 0, true, fmt.Sprintf("minutes must be between 00 and 59, got %02d", minutes)
	}
	return combine(hours, minutes)
}

func parseInteger(s string) (time.Duration, bool, string) {
	if !integerPattern.MatchString(s) {
		return 0, false, ""
	}
	minutes, err := atoi(s)
	if err != nil {
		return 0, true, err.Error()
	}
	return combine(0, minutes)
}

func parseDecimal(s string) (time.Duration, bool, string) {
	if !decimalPattern.MatchString(s) {
		return 0, false, ""
	}
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return 0, true, "value out of range"
	}
	if hours > maxDuration.Hours() {
		return 0, true, "value out of range"
	}
	secs := math.Round(hours * 3600)
	return time.Duration(secs) * time.Second, true, ""
}

func combine(hours, minutes int64) (time.Duration, bool, string) {
	limit := int64(maxDuration / time.Minute)
	if hours > limit/60 || minutes > limit || hours*60+minutes > limit {
		return 0, true, "value out of range"
	}
	return time.Duration(hours*60+minutes) * time.Minute, true, ""
}

func atoi(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value out of range")
	}
	return v, nil
}
