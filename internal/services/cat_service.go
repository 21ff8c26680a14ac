package services

import (
	"context"
	"errors"
	"strings"

	"github.com/4oBuko/spy-cat-agency-records/internal/events"
	"github.com/4oBuko/spy-cat-agency-records/internal/models"
	"github.com/4oBuko/spy-cat-agency-records/internal/myerrors"
	"github.com/4oBuko/spy-cat-agency-records/internal/repositories"
	"github.com/4oBuko/spy-cat-agency-records/pkg/catapi"
)

type CatService interface {
	Add(ctx context.Context, cat models.Cat) (models.Cat, error)
	GetById(ctx context.Context, id int64) (models.Cat, error)
	UpdateSalary(ctx context.Context, id int64, update models.CatUpdate) (models.Cat, error)
	DeleteById(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]models.Cat, error)
}

type DefaultCatService struct {
	catRepo repositories.CatRepository
	catAPI  catapi.CatAPI
	notifier
}

func NewDefaultCatService(catRepo repositories.CatRepository, catAPI catapi.CatAPI, opts ...Option) *DefaultCatService {
	return &DefaultCatService{
		catRepo:  catRepo,
		catAPI:   catAPI,
		notifier: newNotifier(opts),
	}
}

// Add validates the breed against the registry before storing the cat.
func (d *DefaultCatService) Add(ctx context.Context, cat models.Cat) (models.Cat, error) {
	cat.Breed = strings.TrimSpace(cat.Breed)
	breeds, err := d.catAPI.ListBreeds(ctx)
	if err != nil {
		return models.Cat{}, myerrors.Unavailable(err, "Breed validation service unavailable")
	}
	if !catapi.HasBreed(breeds, cat.Breed) {
		return models.Cat{}, myerrors.Validation("Invalid breed: %s", cat.Breed)
	}

	newCat, err := d.catRepo.Add(ctx, cat)
	if err != nil {
		return models.Cat{}, err
	}
	d.notify(ctx, events.CatCreated, newCat.Id, newCat)
	return newCat, nil
}

func (d *DefaultCatService) GetById(ctx context.Context, id int64) (models.Cat, error) {
	cat, err := d.catRepo.GetById(ctx, id)
	if err != nil {
		return models.Cat{}, catError(err)
	}
	return cat, nil
}

func (d *DefaultCatService) UpdateSalary(ctx context.Context, id int64, update models.CatUpdate) (models.Cat, error) {
	if update.Salary == nil {
		return models.Cat{}, myerrors.Validation("salary is required")
	}
	if *update.Salary < 0 {
		return models.Cat{}, myerrors.Validation("salary must not be negative")
	}
	err := d.catRepo.UpdateSalary(ctx, id, *update.Salary)
	if err != nil {
		return models.Cat{}, catError(err)
	}
	updatedCat, err := d.catRepo.GetById(ctx, id)
	if err != nil {
		return models.Cat{}, catError(err)
	}
	d.notify(ctx, events.CatSalaryUpdated, id, map[string]float64{"salary": updatedCat.Salary})
	return updatedCat, nil
}

func (d *DefaultCatService) DeleteById(ctx context.Context, id int64) error {
	err := d.catRepo.DeleteById(ctx, id)
	if err != nil {
		return catError(err)
	}
	d.notify(ctx, events.CatDeleted, id, nil)
	return nil
}

func (d *DefaultCatService) GetAll(ctx context.Context) ([]models.Cat, error) {
	cats, err := d.catRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func catError(err error) error {
	if errors.Is(err, repositories.ErrCatNotFound) {
		return myerrors.NotFound("Cat not found")
	}
	return err
}
