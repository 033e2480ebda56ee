package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapHeaderSingleRow(t *testing.T) {
	rows := [][]string{
		{"Patel family book"},
		{},
		{"Firstname(English)", "Surname", "Mobile Number Main", "DOB", "Country"},
		{"Ramesh", "Patel", "9000000001", "1990-05-17", ""},
	}

	layout, ok := MapHeader(rows)
	require.True(t, ok)
	assert.Equal(t, 2, layout.HeaderRow)
	assert.Equal(t, 3, layout.DataStart)
	assert.Equal(t, map[Field]int{
		FieldFirstName: 0,
		FieldSurname:   1,
		FieldMobile1:   2,
		FieldDOB:       3,
		FieldCountry:   4,
	}, layout.Columns)
	assert.Equal(t, "9000000001", layout.Cell(rows[3], FieldMobile1))
	assert.Equal(t, "", layout.Cell(rows[3], FieldMobile2))
}

func TestMapHeaderStackedRows(t *testing.T) {
	rows := [][]string{
		{"Firstname", "", "Middlename", "", "Surname", "Mobile", "Mobile", "Profile", "Thumb Profile", "International Mobile", "Father Name", "Son Name"},
		{"In English", "In Gujarati", "In English", "In Gujarati", "", "Main", "Optional", "Link", "Link", "", "", ""},
		{"Ramesh", "રમેશ", "Mansukh", "મનસુખ", "Patel", "9000000001", "9000000002", "/media/p.jpg", "", "", "", ""},
	}

	layout, ok := MapHeader(rows)
	require.True(t, ok)
	assert.Equal(t, 0, layout.HeaderRow)
	assert.Equal(t, 2, layout.DataStart)
	assert.Equal(t, map[Field]int{
		FieldFirstName:     0,
		FieldGujFirstName:  1,
		FieldMiddleName:    2,
		FieldGujMiddleName: 3,
		FieldSurname:       4,
		FieldMobile1:       5,
		FieldMobile2:       6,
		FieldProfile:       7,
		FieldThumbProfile:  8,
		FieldIntMobile:     9,
		FieldFatherName:    10,
		FieldSonName:       11,
	}, layout.Columns)
}

func TestMapHeaderBareMobileFillsFirstFreeSlot(t *testing.T) {
	rows := [][]string{
		{"Firstname", "Mobile Optional", "Mobile", "Mobile"},
	}

	layout, ok := MapHeader(rows)
	require.True(t, ok)
	assert.Equal(t, 1, layout.Columns[FieldMobile2])
	assert.Equal(t, 2, layout.Columns[FieldMobile1])
	assert.Len(t, layout.Columns, 3)
}

func TestMapHeaderFirstColumnWins(t *testing.T) {
	rows := [][]string{{"Surname", "Firstname", "Last Name"}}

	layout, ok := MapHeader(rows)
	require.True(t, ok)
	assert.Equal(t, 0, layout.Columns[FieldSurname])
}

func TestMapHeaderMissing(t *testing.T) {
	rows := make([][]string, 12)
	for i := range rows {
		rows[i] = []string{"note", "value"}
	}
	rows[11] = []string{"Firstname"}

	_, ok := MapHeader(rows)
	assert.False(t, ok)

	_, ok = MapHeader(nil)
	assert.False(t, ok)
}

func TestSonWordDoesNotMatchPerson(t *testing.T) {
	_, ok := classify("Contact Person", map[Field]int{})
	assert.True(t, ok)
	field, _ := classify("Person", map[Field]int{})
	assert.NotEqual(t, FieldSonName, field)
}

func TestMapHeaderIgnoresLookalikeColumns(t *testing.T) {
	rows := [][]string{{"Firstname", "Person Name", "Last Updated", "Sonal Notes"}}

	layout, ok := MapHeader(rows)
	require.True(t, ok)
	assert.Equal(t, map[Field]int{FieldFirstName: 0}, layout.Columns)
}

func TestMapHeaderDateAndSonWords(t *testing.T) {
	rows := [][]string{{"Firstname", "Date", "SonName", "Birth Date", "Son's Name"}}

	layout, ok := MapHeader(rows)
	require.True(t, ok)
	assert.Equal(t, 1, layout.Columns[FieldDOB])
	assert.Equal(t, 2, layout.Columns[FieldSonName])
}
