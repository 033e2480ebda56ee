package importer

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
)

type nameKey struct {
	surnameID uint
	name      string
}

// LinkStats summarises one linker pass.
type LinkStats struct {
	Created int
	Refused int
	Skipped bool // no system admin
}

// RelationLinker reconstructs parent links after an import by matching a
// person's parent-given-name against same-surname given names.
type RelationLinker struct {
	persons   repository.PersonRepositoryInterface
	relations repository.RelationRepositoryInterface
	log       *logger.Logger

	byName   map[nameKey][]uint // ids ascending
	parentOf map[uint]uint
	admin    *models.Person
	stats    LinkStats
}

func NewRelationLinker(persons repository.PersonRepositoryInterface, relations repository.RelationRepositoryInterface, log *logger.Logger) *RelationLinker {
	return &RelationLinker{persons: persons, relations: relations, log: log}
}

// Link runs the parent-given-name pass and then the son cue pass.
func (l *RelationLinker) Link(ctx context.Context, cues []sonCue) (LinkStats, error) {
	l.stats = LinkStats{}

	admin, err := l.persons.FindSystemAdmin(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.log.Warn("no super-admin or admin exists, relation linking skipped")
		l.stats.Skipped = true
		return l.stats, nil
	}
	if err != nil {
		return l.stats, err
	}
	l.admin = admin

	people, err := l.persons.ListLinkCandidates(ctx)
	if err != nil {
		return l.stats, err
	}
	relations, err := l.relations.ListActive(ctx)
	if err != nil {
		return l.stats, err
	}

	l.byName = make(map[nameKey][]uint)
	for _, p := range people {
		k := nameKey{surnameID: *p.SurnameID, name: strings.ToLower(strings.TrimSpace(p.FirstName))}
		l.byName[k] = append(l.byName[k], p.ID)
	}
	l.parentOf = make(map[uint]uint, len(relations))
	for _, r := range relations {
		l.parentOf[r.ChildID] = r.ParentID
	}

	for _, p := range people {
		given := strings.ToLower(strings.TrimSpace(p.MiddleName))
		if given == "" {
			continue
		}
		for _, candidate := range l.byName[nameKey{surnameID: *p.SurnameID, name: given}] {
			if candidate == p.ID {
				continue
			}
			if err := l.link(ctx, candidate, p.ID); err != nil {
				return l.stats, err
			}
			break
		}
	}

	for _, cue := range cues {
		for _, son := range cue.names {
			for _, child := range l.byName[nameKey{surnameID: cue.surnameID, name: strings.ToLower(son)}] {
				if child == cue.parentID {
					continue
				}
				if _, has := l.parentOf[child]; has {
					continue
				}
				if err := l.link(ctx, cue.parentID, child); err != nil {
					return l.stats, err
				}
				break
			}
		}
	}

	return l.stats, nil
}

// createsCycle reports whether parent already descends from child.
func (l *RelationLinker) createsCycle(parent, child uint) bool {
	seen := map[uint]bool{}
	for cur, ok := parent, true; ok; cur, ok = l.parentOf[cur] {
		if cur == child {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
	}
	return false
}

// link gets-or-creates parent → child, refusing second parents and cycles.
func (l *RelationLinker) link(ctx context.Context, parent, child uint) error {
	if existing, has := l.parentOf[child]; has {
		if existing != parent {
			l.stats.Refused++
			l.log.Warn("relation refused, child already has a parent",
				"parent_id", parent, "child_id", child, "existing_parent_id", existing)
		}
		return nil
	}
	if l.createsCycle(parent, child) {
		l.stats.Refused++
		l.log.Warn("relation refused, it would create a cycle", "parent_id", parent, "child_id", child)
		return nil
	}

	rel := &models.ParentChildRelation{ParentID: parent, ChildID: child, CreatedByID: &l.admin.ID}
	if err := l.relations.Create(ctx, rel); err != nil {
		return err
	}
	l.parentOf[child] = parent
	l.stats.Created++
	return nil
}
