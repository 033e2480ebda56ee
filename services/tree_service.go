package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
)

// FamilyTree is the ancestry path of a person up to the surname's top member
// and the remaining visible members of that surname.
type FamilyTree struct {
	Person    *models.Person
	Surname   *models.Surname
	Ancestors []models.Person // starts with Person, nearest ancestor next
	Members   []models.Person // natural order by given name
}

// AncestorIDs returns the ids on the ancestry path.
func (t *FamilyTree) AncestorIDs() map[uint]bool {
	ids := make(map[uint]bool, len(t.Ancestors))
	for _, a := range t.Ancestors {
		ids[a.ID] = true
	}
	return ids
}

type FamilyTreeService struct {
	persons   repository.PersonRepositoryInterface
	surnames  repository.SurnameRepositoryInterface
	relations repository.RelationRepositoryInterface
	log       *logger.Logger
}

func NewFamilyTreeService(persons repository.PersonRepositoryInterface, surnames repository.SurnameRepositoryInterface, relations repository.RelationRepositoryInterface, log *logger.Logger) *FamilyTreeService {
	if log == nil {
		log = logger.Nop()
	}
	return &FamilyTreeService{persons: persons, surnames: surnames, relations: relations, log: log.With("component", "tree")}
}

// Tree walks parent relations upward from personID with an explicit visited
// set, so it terminates on any relation graph, cyclic or not.
func (s *FamilyTreeService) Tree(ctx context.Context, personID uint) (*FamilyTree, error) {
	person, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "Person %d not found.", personID)
		}
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to load person")
	}

	tree := &FamilyTree{Person: person, Ancestors: []models.Person{*person}}
	if person.SurnameID == nil {
		return tree, nil
	}

	surname, err := s.surnames.GetByID(ctx, *person.SurnameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "Surname %d not found.", *person.SurnameID)
		}
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to load surname")
	}
	tree.Surname = surname

	isTop := func(id uint) bool {
		return surname.TopMemberID != nil && *surname.TopMemberID == id
	}

	visited := map[uint]bool{person.ID: true}
	frontier := []uint{person.ID}
	for len(frontier) > 0 {
		var next []uint
		for _, id := range frontier {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if isTop(id) {
				continue
			}
			parent, err := s.relations.ParentOf(ctx, id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return nil, apperr.Wrap(err, apperr.KindInternal, "failed to load parent")
			}
			if isTop(parent.ID) || visited[parent.ID] {
				continue
			}
			visited[parent.ID] = true
			tree.Ancestors = append(tree.Ancestors, *parent)
			next = append(next, parent.ID)
		}
		frontier = next
	}

	people, err := s.persons.ListBySurname(ctx, surname.ID, true)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to load surname members")
	}
	for _, p := range people {
		if !visited[p.ID] {
			tree.Members = append(tree.Members, p)
		}
	}
	sort.SliceStable(tree.Members, func(i, j int) bool {
		a, b := strings.ToLower(tree.Members[i].FirstName), strings.ToLower(tree.Members[j].FirstName)
		if a == b {
			return tree.Members[i].ID < tree.Members[j].ID
		}
		return natsort.Compare(a, b)
	})

	s.log.Debug("tree computed", "person_id", personID, "ancestors", len(tree.Ancestors), "members", len(tree.Members))
	return tree, nil
}
