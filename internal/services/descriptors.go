package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// descriptorRepository is what seeding the default descriptors needs
type descriptorRepository interface {
	ListAgeCategories(ctx context.Context, contestID string) ([]scoring.AgeCategory, error)
	ListWeightClasses(ctx context.Context, contestID string) ([]scoring.WeightClass, error)
	SeedDescriptors(ctx context.Context, contestID string, ages []scoring.AgeCategory, classes []scoring.WeightClass) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

func descriptorsSeededKey(contestID string) string {
	return "descriptors_seeded:" + contestID
}

// ensureDescriptors seeds the default templates the first time a contest is
// used. A contest whose descriptors were later removed on purpose is left alone.
func ensureDescriptors(ctx context.Context, repo descriptorRepository, contestID string) error {
	key := descriptorsSeededKey(contestID)
	seeded, err := repo.GetSetting(ctx, key)
	if err == nil && seeded == "true" {
		return nil
	}
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return err
	}

	ages, err := repo.ListAgeCategories(ctx, contestID)
	if err != nil {
		return err
	}
	classes, err := repo.ListWeightClasses(ctx, contestID)
	if err != nil {
		return err
	}
	if len(ages) == 0 && len(classes) == 0 {
		if err := repo.SeedDescriptors(ctx, contestID, DefaultAgeCategories(), DefaultWeightClasses()); err != nil {
			return err
		}
	}
	return repo.SetSetting(ctx, key, "true")
}

// DefaultAgeCategories is the age template a new contest starts with
func DefaultAgeCategories() []scoring.AgeCategory {
	age := func(v int) *int { return &v }
	return []scoring.AgeCategory{
		{Code: "SUBJUNIOR", MaxAge: age(18), SortOrder: 1},
		{Code: "JUNIOR", MinAge: age(19), MaxAge: age(23), SortOrder: 2},
		{Code: "SENIOR", MinAge: age(24), MaxAge: age(39), SortOrder: 3},
		{Code: "MASTERS1", MinAge: age(40), MaxAge: age(49), SortOrder: 4},
		{Code: "MASTERS2", MinAge: age(50), MaxAge: age(59), SortOrder: 5},
		{Code: "MASTERS3", MinAge: age(60), MaxAge: age(69), SortOrder: 6},
		{Code: "MASTERS4", MinAge: age(70), SortOrder: 7},
	}
}

var (
	defaultMaleLimits   = []float64{59, 66, 74, 83, 93, 105, 120}
	defaultFemaleLimits = []float64{47, 52, 57, 63, 69, 76, 84}
)

// DefaultWeightClasses is the weight-class template a new contest starts with.
// Each class starts 0.01 kg above the previous limit and the last is open-ended.
func DefaultWeightClasses() []scoring.WeightClass {
	var classes []scoring.WeightClass
	classes = append(classes, weightClassLadder(scoring.GenderMale, defaultMaleLimits, 0)...)
	classes = append(classes, weightClassLadder(scoring.GenderFemale, defaultFemaleLimits, len(defaultMaleLimits)+1)...)
	return classes
}

func weightClassLadder(gender scoring.Gender, limits []float64, sortOffset int) []scoring.WeightClass {
	classes := make([]scoring.WeightClass, 0, len(limits)+1)
	var lower *float64
	for i, limit := range limits {
		upper := limit
		classes = append(classes, scoring.WeightClass{
			Code:      fmt.Sprintf("%g", limit),
			Gender:    gender,
			MinWeight: lower,
			MaxWeight: &upper,
			SortOrder: sortOffset + i + 1,
		})
		next := limit + 0.01
		lower = &next
	}
	last := limits[len(limits)-1]
	classes = append(classes, scoring.WeightClass{
		Code:      fmt.Sprintf("%g+", last),
		Gender:    gender,
		MinWeight: lower,
		SortOrder: sortOffset + len(limits) + 1,
	})
	return classes
}
