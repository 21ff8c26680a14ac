package services

import (
	"context"
	"errors"

	"github.com/4oBuko/spy-cat-agency-records/internal/events"
	"github.com/4oBuko/spy-cat-agency-records/internal/models"
	"github.com/4oBuko/spy-cat-agency-records/internal/myerrors"
	"github.com/4oBuko/spy-cat-agency-records/internal/repositories"
)

type TargetService interface {
	Add(ctx context.Context, target models.Target) (models.Target, error)
	GetById(ctx context.Context, id int64) (models.Target, error)
	GetAll(ctx context.Context) ([]models.Target, error)
	UpdateNotes(ctx context.Context, id int64, update models.TargetUpdate) (models.Target, error)
	Complete(ctx context.Context, id int64) (models.Target, error)
	Delete(ctx context.Context, id int64) error
}

type DefaultTargetService struct {
	targetRepository  repositories.TargetRepository
	missionRepository repositories.MissionRepository
	notifier
}

func NewDefaultTargetService(targetRepository repositories.TargetRepository, missionRepository repositories.MissionRepository, opts ...Option) *DefaultTargetService {
	return &DefaultTargetService{
		targetRepository:  targetRepository,
		missionRepository: missionRepository,
		notifier:          newNotifier(opts),
	}
}

// Add stores the target as given. The per-mission target limit only applies
// when a mission is created.
func (d *DefaultTargetService) Add(ctx context.Context, target models.Target) (models.Target, error) {
	if target.MissionId != nil {
		if _, err := d.missionRepository.GetById(ctx, *target.MissionId); err != nil {
			return models.Target{}, missionError(err)
		}
	}

	saved, err := d.targetRepository.Add(ctx, target)
	if err != nil {
		return models.Target{}, err
	}
	d.notify(ctx, events.TargetCreated, saved.Id, eventTarget(saved))
	return saved, nil
}

func (d *DefaultTargetService) GetById(ctx context.Context, id int64) (models.Target, error) {
	target, err := d.targetRepository.GetById(ctx, id)
	if err != nil {
		return models.Target{}, targetError(err)
	}
	return target, nil
}

func (d *DefaultTargetService) GetAll(ctx context.Context) ([]models.Target, error) {
	return d.targetRepository.GetAll(ctx)
}

// UpdateNotes rewrites the notes while the owning mission is still open.
func (d *DefaultTargetService) UpdateNotes(ctx context.Context, id int64, update models.TargetUpdate) (models.Target, error) {
	if update.Notes == nil {
		return models.Target{}, myerrors.Validation("notes are required")
	}
	target, err := d.targetRepository.GetById(ctx, id)
	if err != nil {
		return models.Target{}, targetError(err)
	}
	if target.MissionId == nil {
		return models.Target{}, myerrors.NotFound("Mission not found")
	}
	mission, err := d.missionRepository.GetById(ctx, *target.MissionId)
	if err != nil {
		return models.Target{}, missionError(err)
	}
	if mission.Complete {
		return models.Target{}, myerrors.InvalidState("Cannot update target notes for completed mission")
	}

	if err := d.targetRepository.UpdateNotes(ctx, id, *update.Notes); err != nil {
		return models.Target{}, targetError(err)
	}
	target.Notes = *update.Notes
	d.notify(ctx, events.TargetNotesUpdated, id, map[string]string{"notes": eventNotes(target.Notes)})
	return target, nil
}

// Complete marks a single target complete. The owning mission is left as is.
func (d *DefaultTargetService) Complete(ctx context.Context, id int64) (models.Target, error) {
	target, err := d.targetRepository.GetById(ctx, id)
	if err != nil {
		return models.Target{}, targetError(err)
	}
	if err := d.targetRepository.Complete(ctx, id); err != nil {
		return models.Target{}, targetError(err)
	}
	target.Complete = true
	d.notify(ctx, events.TargetCompleted, id, nil)
	return target, nil
}

func (d *DefaultTargetService) Delete(ctx context.Context, id int64) error {
	if err := d.targetRepository.Delete(ctx, id); err != nil {
		return targetError(err)
	}
	d.notify(ctx, events.TargetDeleted, id, nil)
	return nil
}

func targetError(err error) error {
	if errors.Is(err, repositories.ErrTargetNotFound) {
		return myerrors.NotFound("Target not found")
	}
	return err
}
