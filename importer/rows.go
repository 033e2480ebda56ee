package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/media"
	"github.com/camden-git/communitybackend/models"
)

type rowOutcome int

const (
	rowSkipped rowOutcome = iota
	rowCreated
	rowUpdated
)

// sonCue records a son_name cell for the linker's second pass.
type sonCue struct {
	parentID  uint
	surnameID uint
	names     []string
}

type sonCues struct {
	items []sonCue
}

func splitNames(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == ';'
	})
	var names []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// processSheet applies the header mapping and row processor to one surname sheet.
func (run *importRun) processSheet(ctx context.Context, sheet Sheet, surname *models.Surname) {
	log := run.log.With("sheet", sheet.Name)

	layout, ok := MapHeader(sheet.Rows)
	if !ok {
		log.Warn("no header row found, sheet skipped")
		run.bugs.Add([]string{sheet.Name}, fmt.Sprintf("No header row found in sheet '%s'; sheet skipped.", sheet.Name))
		return
	}

	var created, updated, failed int
	for i := layout.DataStart; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		outcome, err := run.processRowSafely(ctx, sheet.Name, surname, layout, row)
		if err != nil {
			failed++
			log.Error("row failed", "row", i+1, "error", err)
			run.bugs.Add(row, rowErrorMessage(err))
			continue
		}
		switch outcome {
		case rowCreated:
			created++
		case rowUpdated:
			updated++
		}
	}

	run.result.Created += created
	run.result.Updated += updated
	log.Info("sheet imported", "created", created, "updated", updated, "bugs", failed)
}

func rowErrorMessage(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind == apperr.KindRow {
		return ae.Message
	}
	return err.Error()
}

// processRowSafely runs one row inside a savepoint so a failure rolls back
// only that row. Panics are converted into row errors.
func (run *importRun) processRowSafely(ctx context.Context, sheetName string, surname *models.Surname, layout HeaderLayout, row []string) (outcome rowOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = rowSkipped
			err = apperr.Newf(apperr.KindRow, "unexpected error: %v", r)
		}
	}()

	err = run.tx.Transaction(func(rowTx *gorm.DB) error {
		var rowErr error
		outcome, rowErr = run.withTx(rowTx).processRow(ctx, sheetName, surname, layout, row)
		return rowErr
	})
	if err != nil {
		return rowSkipped, err
	}
	return outcome, nil
}

func (run *importRun) processRow(ctx context.Context, sheetName string, surname *models.Surname, layout HeaderLayout, row []string) (rowOutcome, error) {
	values := make(map[Field]string, len(layout.Columns))
	empty := true
	for _, f := range AllFields {
		v := NormalizeValue(layout.Cell(row, f))
		values[f] = v
		if v != "" {
			empty = false
		}
	}
	if empty {
		return rowSkipped, nil
	}

	if rowSurname := values[FieldSurname]; rowSurname != "" && !strings.EqualFold(rowSurname, strings.TrimSpace(sheetName)) {
		return rowSkipped, apperr.Newf(apperr.KindRow, "Surname mismatch: Sheet is '%s', but row says '%s'", strings.TrimSpace(sheetName), rowSurname)
	}

	firstName := values[FieldFirstName]
	if firstName == "" {
		return rowSkipped, apperr.New(apperr.KindRow, "First name is missing.")
	}

	middleName := values[FieldMiddleName]
	if middleName == "" {
		middleName = firstWord(values[FieldFatherName])
	}

	country, err := run.country(ctx, values[FieldCountry])
	if err != nil {
		return rowSkipped, err
	}

	incoming := models.Person{
		FirstName:           firstName,
		MiddleName:          middleName,
		SurnameID:           &surname.ID,
		DateOfBirth:         values[FieldDOB],
		MobileNumber1:       values[FieldMobile1],
		MobileNumber2:       values[FieldMobile2],
		CountryID:           &country.ID,
		InternationalMobile: values[FieldIntMobile],
		DistrictID:          &run.location.District.ID,
		TalukaID:            &run.location.Taluka.ID,
		VillageID:           &run.location.Village.ID,
		ProfilePath:         media.RelativePath(values[FieldProfile]),
		ThumbProfilePath:    media.RelativePath(values[FieldThumbProfile]),
		IsOutOfCountry:      !strings.EqualFold(country.Name, run.opts.DefaultCountry),
		UpdateField:         run.auditNote(),
	}

	person, outcome, err := run.upsertPerson(ctx, incoming)
	if err != nil {
		return rowSkipped, err
	}

	if gujFirst, gujMiddle := values[FieldGujFirstName], values[FieldGujMiddleName]; gujFirst != "" || gujMiddle != "" {
		if err := run.persons.UpsertTranslation(ctx, person.ID, models.LangGujarati, gujFirst, gujMiddle); err != nil {
			return rowSkipped, err
		}
	}

	if sons := splitNames(values[FieldSonName]); len(sons) > 0 {
		run.cues.items = append(run.cues.items, sonCue{parentID: person.ID, surnameID: surname.ID, names: sons})
	}

	return outcome, nil
}

// upsertPerson updates the person owning a non-empty mobile1, or creates one.
func (run *importRun) upsertPerson(ctx context.Context, incoming models.Person) (*models.Person, rowOutcome, error) {
	if incoming.MobileNumber1 != "" {
		existing, err := run.persons.FindByMobile1(ctx, incoming.MobileNumber1)
		switch {
		case err == nil:
			incoming.ID = existing.ID
			if err := run.persons.UpdateImported(ctx, &incoming); err != nil {
				return nil, rowSkipped, err
			}
			return &incoming, rowUpdated, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, rowSkipped, err
		}
	}

	incoming.IsVisible = true
	if err := run.persons.Create(ctx, &incoming); err != nil {
		return nil, rowSkipped, err
	}
	return &incoming, rowCreated, nil
}

// country resolves the row's country, defaulting when empty.
func (run *importRun) country(ctx context.Context, name string) (*models.Country, error) {
	if name == "" {
		name = run.opts.DefaultCountry
	}
	return run.locations.GetOrCreateCountry(ctx, name)
}
