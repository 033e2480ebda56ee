package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
)

// Resolution describes how a resolver satisfied a lookup.
type Resolution string

const (
	ResolutionExact   Resolution = "exact"
	ResolutionCreated Resolution = "created"
	ResolutionEmpty   Resolution = "empty"
)

// LocationResolver performs a strict, case-insensitive District→Taluka→Village
// lookup. It never creates locations.
type LocationResolver struct {
	locations repository.LocationRepositoryInterface
}

func NewLocationResolver(locations repository.LocationRepositoryInterface) *LocationResolver {
	return &LocationResolver{locations: locations}
}

// Resolve returns the location triple or a not_found error naming the first missing level.
func (r *LocationResolver) Resolve(ctx context.Context, district, taluka, village string) (*models.Location, error) {
	district, taluka, village = strings.TrimSpace(district), strings.TrimSpace(taluka), strings.TrimSpace(village)

	switch {
	case district == "":
		return nil, apperr.New(apperr.KindNotFound, "District is empty.")
	case taluka == "":
		return nil, apperr.New(apperr.KindNotFound, "Taluka is empty.")
	case village == "":
		return nil, apperr.New(apperr.KindNotFound, "Village is empty.")
	}

	d, err := r.locations.FindDistrict(ctx, district)
	if err != nil {
		return nil, missingLevel(err, fmt.Sprintf("District '%s' not found.", district))
	}
	t, err := r.locations.FindTaluka(ctx, d.ID, taluka)
	if err != nil {
		return nil, missingLevel(err, fmt.Sprintf("Taluka '%s' not found in district '%s'.", taluka, d.Name))
	}
	v, err := r.locations.FindVillage(ctx, t.ID, village)
	if err != nil {
		return nil, missingLevel(err, fmt.Sprintf("Village '%s' not found in taluka '%s'.", village, t.Name))
	}

	return &models.Location{District: *d, Taluka: *t, Village: *v}, nil
}

func missingLevel(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, message)
	}
	return apperr.Wrap(err, apperr.KindInternal, message)
}

// SurnameResolver matches surnames case-insensitively and creates absent ones
// with the provided casing.
type SurnameResolver struct {
	surnames repository.SurnameRepositoryInterface
}

func NewSurnameResolver(surnames repository.SurnameRepositoryInterface) *SurnameResolver {
	return &SurnameResolver{surnames: surnames}
}

// Find matches an existing surname without creating one.
func (r *SurnameResolver) Find(ctx context.Context, name string) (*models.Surname, Resolution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ResolutionEmpty, nil
	}
	s, err := r.surnames.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.Newf(apperr.KindNotFound, "Surname '%s' not found.", name)
		}
		return nil, "", err
	}
	return s, ResolutionExact, nil
}

// Resolve matches an existing surname or creates it.
func (r *SurnameResolver) Resolve(ctx context.Context, name string) (*models.Surname, Resolution, error) {
	s, res, err := r.Find(ctx, name)
	if err == nil || !apperr.IsKind(err, apperr.KindNotFound) {
		return s, res, err
	}

	created := &models.Surname{Name: strings.TrimSpace(name)}
	if err := r.surnames.Create(ctx, created); err != nil {
		return nil, "", err
	}
	return created, ResolutionCreated, nil
}
