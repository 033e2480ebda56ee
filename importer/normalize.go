package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	trailingZeroFraction = regexp.MustCompile(`^(-?\d+)\.0+$`)
	scientificNumber     = regexp.MustCompile(`^-?\d+(\.\d+)?[eE][+-]?\d+$`)
	isoDate              = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	isoDateTime          = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[ T]\S.*$`)
	dayFirstDateTime     = regexp.MustCompile(`^(\d{2}[-/]\d{2}[-/]\d{4}) \S.*$`)
)

// maxExactFloat is the largest magnitude a float64 holds without losing integer precision.
const maxExactFloat = 1 << 53

// NormalizeValue converts a raw cell into its canonical string form. It never
// touches the database and NormalizeValue(NormalizeValue(x)) == NormalizeValue(x).
func NormalizeValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return normalizeString(val)
	case float64:
		return normalizeString(formatFloat(val))
	case float32:
		return normalizeString(formatFloat(float64(val)))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return normalizeString(val.String())
	default:
		return normalizeString(fmt.Sprint(val))
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < maxExactFloat {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func normalizeString(s string) string {
	s = stripArtifacts(s)
	if s == "" {
		return ""
	}

	if m := trailingZeroFraction.FindStringSubmatch(s); m != nil {
		s = m[1]
	} else if scientificNumber.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < maxExactFloat {
			s = strconv.FormatInt(int64(f), 10)
		}
	}

	return normalizeDate(s)
}

// stripArtifacts removes whitespace, the ="..." formula wrapper and a leading
// apostrophe until none remain.
func stripArtifacts(s string) string {
	for {
		prev := s
		s = strings.TrimSpace(s)
		if len(s) >= 3 && strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
			s = s[2 : len(s)-1]
		}
		s = strings.TrimPrefix(s, "'")
		if s == prev {
			return s
		}
	}
}

func normalizeDate(s string) string {
	if m := isoDateTime.FindStringSubmatch(s); m != nil && strings.Contains(s, ":") {
		s = m[1]
	} else if m := dayFirstDateTime.FindStringSubmatch(s); m != nil && strings.Contains(s, ":") {
		s = m[1]
	}

	if s == "0000-00-00" || s == "00-00-0000" || strings.Contains(s, "00:00:00") {
		return ""
	}

	if m := isoDate.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return s
}
