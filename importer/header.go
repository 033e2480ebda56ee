package importer

import (
	"strings"
	"unicode"
)

// Field is a logical column of a surname sheet.
type Field string

const (
	FieldFirstName     Field = "first_name"
	FieldMiddleName    Field = "middle_name"
	FieldGujFirstName  Field = "guj_first_name"
	FieldGujMiddleName Field = "guj_middle_name"
	FieldSurname       Field = "surname"
	FieldDOB           Field = "dob"
	FieldMobile1       Field = "mobile1"
	FieldMobile2       Field = "mobile2"
	FieldCountry       Field = "country"
	FieldIntMobile     Field = "int_mobile"
	FieldProfile       Field = "profile"
	FieldThumbProfile  Field = "thumb_profile"
	FieldFatherName    Field = "father_name"
	FieldSonName       Field = "son_name"
)

// AllFields lists every logical field in extraction order.
var AllFields = []Field{
	FieldFirstName, FieldMiddleName, FieldGujFirstName, FieldGujMiddleName,
	FieldSurname, FieldDOB, FieldMobile1, FieldMobile2, FieldCountry,
	FieldIntMobile, FieldProfile, FieldThumbProfile, FieldFatherName, FieldSonName,
}

const (
	headerScanRows    = 10
	dashboardScanRows = 5
)

var headerTokens = []string{"firstname", "surname", "mobile"}

var subHeaderWords = map[string]bool{
	"english": true, "gujarati": true, "main": true, "optional": true, "link": true,
}

// headerRule classifies a column. Fragments match anywhere in the compacted
// header text, words only match whole words. Slotted rules fill mobile1 then
// mobile2. GujField replaces Field when the header carries a Gujarati marker.
type headerRule struct {
	fragments []string
	words     []string
	field     Field
	gujField  Field
	slotted   bool
}

// Rules are tried in order; the first match classifies the column.
var headerRules = []headerRule{
	{fragments: []string{"thumb"}, field: FieldThumbProfile},
	{fragments: []string{"profile", "photo", "image", "picture"}, field: FieldProfile},
	{fragments: []string{"international", "intl"}, field: FieldIntMobile},
	{fragments: []string{"country"}, field: FieldCountry},
	{fragments: []string{"mobile", "phone", "contact"}, slotted: true},
	{fragments: []string{"dob", "birth"}, words: []string{"date"}, field: FieldDOB},
	{fragments: []string{"middlename"}, field: FieldMiddleName, gujField: FieldGujMiddleName},
	{fragments: []string{"firstname", "givenname"}, field: FieldFirstName, gujField: FieldGujFirstName},
	{fragments: []string{"father"}, field: FieldFatherName},
	{words: []string{"son", "sons", "sonname", "sonsname", "sonnames"}, field: FieldSonName},
	{fragments: []string{"surname", "lastname"}, field: FieldSurname},
}

// HeaderLayout is the result of mapping a sheet's header.
type HeaderLayout struct {
	Columns   map[Field]int
	HeaderRow int
	DataStart int // first data row index
}

// Cell returns the raw cell of field in row, or "" when unmapped or short.
func (h HeaderLayout) Cell(row []string, field Field) string {
	j, ok := h.Columns[field]
	if !ok || j >= len(row) {
		return ""
	}
	return row[j]
}

// compact lowercases s and keeps only letters and digits.
func compact(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasGujaratiMarker(s string) bool {
	for _, w := range words(s) {
		if w == "gujarati" || w == "guj" {
			return true
		}
	}
	for _, r := range s {
		if unicode.Is(unicode.Gujarati, r) {
			return true
		}
	}
	return false
}

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		c := compact(cell)
		for _, token := range headerTokens {
			if strings.Contains(c, token) {
				return true
			}
		}
	}
	return false
}

func isSubHeaderRow(row []string) bool {
	for _, cell := range row {
		for _, w := range words(cell) {
			if subHeaderWords[w] {
				return true
			}
		}
	}
	return false
}

func (r headerRule) matches(text string) bool {
	c := compact(text)
	for _, f := range r.fragments {
		if strings.Contains(c, f) {
			return true
		}
	}
	if len(r.words) > 0 {
		for _, w := range words(text) {
			for _, want := range r.words {
				if w == want {
					return true
				}
			}
		}
	}
	return false
}

// classify maps header text to a field. ok is false for ignored columns.
func classify(text string, taken map[Field]int) (Field, bool) {
	for _, rule := range headerRules {
		if !rule.matches(text) {
			continue
		}
		if rule.slotted {
			return mobileSlot(text, taken)
		}
		if rule.gujField != "" && hasGujaratiMarker(text) {
			return rule.gujField, true
		}
		return rule.field, true
	}
	return "", false
}

func mobileSlot(text string, taken map[Field]int) (Field, bool) {
	ws := words(text)
	for _, w := range ws {
		switch w {
		case "optional", "alternate", "alternative", "secondary", "2":
			return FieldMobile2, true
		case "main", "primary", "1":
			return FieldMobile1, true
		}
	}
	if _, ok := taken[FieldMobile1]; !ok {
		return FieldMobile1, true
	}
	if _, ok := taken[FieldMobile2]; !ok {
		return FieldMobile2, true
	}
	return "", false
}

// MapHeader finds the header row within the first rows of a sheet and maps
// logical fields to column indices. A following sub-header row is merged into
// the column text and skipped. ok is false when no header row exists.
func MapHeader(rows [][]string) (HeaderLayout, bool) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}

	headerIdx := -1
	for i := 0; i < limit; i++ {
		if isHeaderRow(rows[i]) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return HeaderLayout{}, false
	}

	header := rows[headerIdx]
	var sub []string
	dataStart := headerIdx + 1
	if dataStart < len(rows) && !isHeaderRow(rows[dataStart]) && isSubHeaderRow(rows[dataStart]) {
		sub = rows[dataStart]
		dataStart++
	}

	width := len(header)
	if len(sub) > width {
		width = len(sub)
	}

	columns := make(map[Field]int)
	lastHeader := ""
	for j := 0; j < width; j++ {
		var parts []string
		if j < len(header) && strings.TrimSpace(header[j]) != "" {
			lastHeader = header[j]
			parts = append(parts, header[j])
		} else if sub != nil && lastHeader != "" && j < len(sub) && strings.TrimSpace(sub[j]) != "" {
			// merged header cells only carry text in their first column
			parts = append(parts, lastHeader)
		}
		if j < len(sub) && strings.TrimSpace(sub[j]) != "" {
			parts = append(parts, sub[j])
		}
		if len(parts) == 0 {
			continue
		}
		field, ok := classify(strings.Join(parts, " "), columns)
		if !ok {
			continue
		}
		if _, exists := columns[field]; exists {
			continue
		}
		columns[field] = j
	}

	return HeaderLayout{Columns: columns, HeaderRow: headerIdx, DataStart: dataStart}, true
}
