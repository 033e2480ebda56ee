package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/media"
	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
)

// PersonView is a person rendered in one language.
type PersonView struct {
	ID             uint   `json:"id"`
	FirstName      string `json:"first_name"`
	MiddleName     string `json:"middle_name"`
	Surname        string `json:"surname,omitempty"`
	SurnameID      *uint  `json:"surname_id,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	MobileNumber1  string `json:"mobile_number1,omitempty"`
	MobileNumber2  string `json:"mobile_number2,omitempty"`
	VillageID      *uint  `json:"village_id,omitempty"`
	Profile        string `json:"profile,omitempty"`
	ThumbProfile   string `json:"thumb_profile,omitempty"`
	IsOutOfCountry bool   `json:"is_out_of_country"`
}

// NewPersonView renders p in lang, falling back to canonical names.
func NewPersonView(p *models.Person, surname *models.Surname, lang string) PersonView {
	first, middle := p.DisplayNames(lang)
	v := PersonView{
		ID:             p.ID,
		FirstName:      first,
		MiddleName:     middle,
		SurnameID:      p.SurnameID,
		DateOfBirth:    p.DateOfBirth,
		MobileNumber1:  p.MobileNumber1,
		MobileNumber2:  p.MobileNumber2,
		VillageID:      p.VillageID,
		Profile:        media.PublicURL(p.ProfilePath),
		ThumbProfile:   media.PublicURL(p.ThumbProfilePath),
		IsOutOfCountry: p.IsOutOfCountry,
	}
	if surname == nil {
		surname = p.Surname
	}
	if surname != nil {
		v.Surname = surname.DisplayName(lang)
	}
	return v
}

type PeopleService struct {
	persons  repository.PersonRepositoryInterface
	surnames repository.SurnameRepositoryInterface
}

func NewPeopleService(persons repository.PersonRepositoryInterface, surnames repository.SurnameRepositoryInterface) *PeopleService {
	return &PeopleService{persons: persons, surnames: surnames}
}

func notFoundOr(err error, format string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Newf(apperr.KindNotFound, format, id)
	}
	return apperr.Wrap(err, apperr.KindInternal, "database error")
}

func (s *PeopleService) Get(ctx context.Context, id uint, lang string) (*PersonView, error) {
	p, err := s.persons.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Person %d not found.", id)
	}
	v := NewPersonView(p, nil, lang)
	return &v, nil
}

// Delete soft-deletes a person; relations referencing it are filtered at read time.
func (s *PeopleService) Delete(ctx context.Context, id uint) error {
	if err := s.persons.SoftDelete(ctx, id); err != nil {
		return notFoundOr(err, "Person %d not found.", id)
	}
	return nil
}

func (s *PeopleService) Surnames(ctx context.Context) ([]models.Surname, error) {
	surnames, err := s.surnames.ListAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to list surnames")
	}
	return surnames, nil
}
