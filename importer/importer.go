// Package importer ingests a surname-partitioned family book from a CSV or
// workbook upload into persons, relations and a bug report.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/media"
	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
)

const (
	dashboardSheetIndex  = 0
	firstSurnameSheetIdx = 2
)

// Options configure import policy.
type Options struct {
	DefaultCountry        string
	CreateMissingSurnames bool
}

// Result is returned for every successful import.
type Result struct {
	RunID            string `json:"run_id"`
	Created          int    `json:"created"`
	Updated          int    `json:"updated"`
	BugCount         int    `json:"bug_count"`
	BugFilePath      string `json:"bug_file_path,omitempty"`
	OriginalFilename string `json:"original_filename"`
	RelationsCreated int    `json:"relations_created"`
	RelationsRefused int    `json:"relations_refused"`
}

// Importer runs imports one at a time per process.
type Importer struct {
	db    *gorm.DB
	store media.Store
	lock  *KeyedLock
	opts  Options
	log   *logger.Logger
	now   func() time.Time
}

func New(db *gorm.DB, store media.Store, lock *KeyedLock, opts Options, log *logger.Logger) *Importer {
	if lock == nil {
		lock = NewKeyedLock()
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.DefaultCountry == "" {
		opts.DefaultCountry = "India"
	}
	return &Importer{
		db:    db,
		store: store,
		lock:  lock,
		opts:  opts,
		log:   log.With("component", "importer"),
		now:   time.Now,
	}
}

// importRun is the state of one import. Repositories are bound to the
// import transaction; bugs, result and cues are shared by every row.
type importRun struct {
	opts     Options
	log      *logger.Logger
	runID    string
	filename string

	tx        *gorm.DB
	persons   *repository.PersonRepository
	surnames  *repository.SurnameRepository
	locations *repository.LocationRepository
	relations *repository.RelationRepository

	location *models.Location
	bugs     *BugReport
	result   *Result
	cues     *sonCues
}

func (run *importRun) withTx(tx *gorm.DB) *importRun {
	cp := *run
	cp.tx = tx
	cp.persons = repository.NewPersonRepository(tx)
	cp.surnames = repository.NewSurnameRepository(tx)
	cp.locations = repository.NewLocationRepository(tx)
	cp.relations = repository.NewRelationRepository(tx)
	return &cp
}

func (run *importRun) auditNote() string {
	return fmt.Sprintf("imported from %s (run %s)", run.filename, run.runID)
}

// Import decodes data and applies it in a single transaction. Fatal errors
// roll everything back; row failures only land in the bug report.
func (im *Importer) Import(ctx context.Context, filename string, data []byte) (*Result, error) {
	release, ok := im.lock.TryLock(ImportLockKey)
	if !ok {
		return nil, apperr.New(apperr.KindImportBusy, "Another import is already running.")
	}
	defer release()

	runID := uuid.NewString()
	log := im.log.With("run_id", runID, "file", filename)
	started := im.now()

	sheets, format, err := Decode(data, filename)
	if err != nil {
		log.Error("decode failed", "error", err)
		return nil, err
	}

	run := &importRun{
		opts:     im.opts,
		log:      log,
		runID:    runID,
		filename: filename,
		bugs:     &BugReport{},
		result:   &Result{RunID: runID, OriginalFilename: filename},
		cues:     &sonCues{},
	}

	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return run.withTx(tx).execute(ctx, sheets, format)
	})
	if err != nil {
		log.Error("import rolled back", "error", err)
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperr.Wrap(err, apperr.KindInternal, "import failed")
	}

	result := run.result
	result.BugCount = run.bugs.Len()
	if result.BugCount > 0 && im.store != nil {
		path, err := im.saveBugReport(run, started)
		if err != nil {
			log.Error("failed to save bug report", "error", err)
		} else {
			result.BugFilePath = path
		}
	}

	log.Info("import finished",
		"created", result.Created, "updated", result.Updated,
		"bugs", result.BugCount, "relations_created", result.RelationsCreated,
		"duration", im.now().Sub(started).String())
	return result, nil
}

func (run *importRun) execute(ctx context.Context, sheets []Sheet, format Format) error {
	if len(sheets) == 0 {
		return apperr.New(apperr.KindDecode, "file contains no sheets")
	}

	loc, err := run.applyDashboard(ctx, sheets[dashboardSheetIndex])
	if err != nil {
		return err
	}
	run.location = loc

	if format == FormatCSV {
		run.log.Info("CSV input validated as Dashboard only")
		return nil
	}

	resolver := NewSurnameResolver(run.surnames)
	for i := firstSurnameSheetIdx; i < len(sheets); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sheet := sheets[i]
		surname, err := run.sheetSurname(ctx, resolver, sheet.Name)
		if err != nil {
			if apperr.IsKind(err, apperr.KindSheetSkipped) {
				run.log.Warn("sheet skipped", "sheet", sheet.Name, "reason", err.Error())
				run.bugs.Add([]string{sheet.Name}, err.Error())
				continue
			}
			return err
		}
		run.processSheet(ctx, sheet, surname)
	}

	stats, err := NewRelationLinker(run.persons, run.relations, run.log).Link(ctx, run.cues.items)
	if err != nil {
		return err
	}
	run.result.RelationsCreated = stats.Created
	run.result.RelationsRefused = stats.Refused
	if stats.Refused > 0 {
		run.log.Warn("some relations were refused", "refused", stats.Refused)
	}
	return nil
}

// sheetSurname maps a sheet name to its Surname. Unknown names are skipped
// unless missing surnames may be created.
func (run *importRun) sheetSurname(ctx context.Context, resolver *SurnameResolver, sheetName string) (*models.Surname, error) {
	var (
		surname    *models.Surname
		resolution Resolution
		err        error
	)
	if run.opts.CreateMissingSurnames {
		surname, resolution, err = resolver.Resolve(ctx, sheetName)
	} else {
		surname, resolution, err = resolver.Find(ctx, sheetName)
	}

	switch {
	case apperr.IsKind(err, apperr.KindNotFound):
		return nil, apperr.Newf(apperr.KindSheetSkipped, "Sheet '%s' does not match any surname; sheet skipped.", strings.TrimSpace(sheetName))
	case err != nil:
		return nil, err
	case resolution == ResolutionEmpty:
		return nil, apperr.New(apperr.KindSheetSkipped, "Sheet has no name; sheet skipped.")
	case resolution == ResolutionCreated:
		run.log.Info("surname created from sheet name", "surname", surname.Name)
	}
	return surname, nil
}

func (im *Importer) saveBugReport(run *importRun, started time.Time) (string, error) {
	body, err := run.bugs.CSV()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.csv", started.Format("20060102_150405"), strings.ReplaceAll(run.runID, "-", "")[:8])
	return im.store.Save(media.AssetTypeBugReport, "", name, bytes.NewReader(body))
}
