package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/4oBuko/spy-cat-agency-records/internal/events"
	"github.com/4oBuko/spy-cat-agency-records/internal/models"
	"github.com/4oBuko/spy-cat-agency-records/internal/myerrors"
	"github.com/4oBuko/spy-cat-agency-records/internal/repositories"
)

type MissionService interface {
	Add(ctx context.Context, mission models.Mission) (models.Mission, error)
	GetById(ctx context.Context, id int64) (models.Mission, error)
	GetAll(ctx context.Context) ([]models.Mission, error)
	Assign(ctx context.Context, missionId, catId int64) (models.Mission, error)
	Complete(ctx context.Context, missionId int64) (models.Mission, error)
	Delete(ctx context.Context, missionId int64) error
}

type DefaultMissionService struct {
	missionRepository repositories.TxMissionRepository
	targetRepository  repositories.TxTargetRepository
	catRepository     repositories.CatRepository
	notifier
}

func NewDefaultMissionService(missionRepo repositories.TxMissionRepository, targetRepository repositories.TxTargetRepository, catRepository repositories.CatRepository, opts ...Option) *DefaultMissionService {
	return &DefaultMissionService{
		missionRepository: missionRepo,
		targetRepository:  targetRepository,
		catRepository:     catRepository,
		notifier:          newNotifier(opts),
	}
}

// Add stores a new open mission together with its 1 to 3 targets.
func (d *DefaultMissionService) Add(ctx context.Context, mission models.Mission) (models.Mission, error) {
	if n := len(mission.Targets); n < models.MinMissionTargets || n > models.MaxMissionTargets {
		return models.Mission{}, myerrors.Validation("A mission must have %d to %d targets", models.MinMissionTargets, models.MaxMissionTargets)
	}
	if mission.CatId != nil {
		if err := d.ensureCatAvailable(ctx, *mission.CatId); err != nil {
			return models.Mission{}, err
		}
	}
	mission.Complete = false

	savedMission, err := d.missionRepository.WithTransaction(ctx,
		func(tx *sql.Tx) (models.Mission, error) {
			sm, err := d.missionRepository.AddWithTx(ctx, tx, mission)
			if err != nil {
				return models.Mission{}, err
			}
			sm.Targets = make([]models.Target, 0, len(mission.Targets))
			missionId := sm.Id
			for _, t := range mission.Targets {
				t.MissionId = &missionId
				t.Complete = false
				nt, err := d.targetRepository.AddWithTx(ctx, tx, t)
				if err != nil {
					return models.Mission{}, err
				}
				sm.Targets = append(sm.Targets, nt)
			}
			return sm, nil
		})
	if err != nil {
		return models.Mission{}, err
	}
	d.notify(ctx, events.MissionCreated, savedMission.Id, eventMission(savedMission))
	return savedMission, nil
}

func (d *DefaultMissionService) GetById(ctx context.Context, id int64) (models.Mission, error) {
	mission, err := d.missionRepository.GetById(ctx, id)
	if err != nil {
		return models.Mission{}, missionError(err)
	}
	mission.Targets, err = d.targetRepository.GetByMissionId(ctx, id)
	if err != nil {
		return models.Mission{}, err
	}
	return mission, nil
}

// GetAll loads every mission and attaches targets with one extra query.
func (d *DefaultMissionService) GetAll(ctx context.Context) ([]models.Mission, error) {
	missions, err := d.missionRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := d.targetRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byMission := make(map[int64][]models.Target)
	for _, t := range targets {
		if t.MissionId != nil {
			byMission[*t.MissionId] = append(byMission[*t.MissionId], t)
		}
	}
	for i := range missions {
		missions[i].Targets = byMission[missions[i].Id]
		if missions[i].Targets == nil {
			missions[i].Targets = []models.Target{}
		}
	}
	return missions, nil
}

// Assign attaches a cat that has no open mission. The busy check and the
// update are separate statements, so two concurrent assignments of the same
// cat can both succeed.
func (d *DefaultMissionService) Assign(ctx context.Context, missionId, catId int64) (models.Mission, error) {
	if _, err := d.missionRepository.GetById(ctx, missionId); err != nil {
		return models.Mission{}, missionError(err)
	}
	if err := d.ensureCatAvailable(ctx, catId); err != nil {
		return models.Mission{}, err
	}

	if err := d.missionRepository.Assign(ctx, missionId, catId); err != nil {
		return models.Mission{}, err
	}
	mission, err := d.GetById(ctx, missionId)
	if err != nil {
		return models.Mission{}, err
	}
	d.notify(ctx, events.MissionAssigned, missionId, map[string]int64{"cat_id": catId})
	return mission, nil
}

// Complete marks the mission and all of its targets complete in one transaction.
func (d *DefaultMissionService) Complete(ctx context.Context, missionId int64) (models.Mission, error) {
	mission, err := d.missionRepository.WithTransaction(ctx,
		func(tx *sql.Tx) (models.Mission, error) {
			if _, err := d.missionRepository.GetByIdWithTx(ctx, tx, missionId); err != nil {
				return models.Mission{}, err
			}
			if err := d.missionRepository.CompleteWithTx(ctx, tx, missionId); err != nil {
				return models.Mission{}, err
			}
			if err := d.targetRepository.CompleteByMissionWithTx(ctx, tx, missionId); err != nil {
				return models.Mission{}, err
			}
			m, err := d.missionRepository.GetByIdWithTx(ctx, tx, missionId)
			if err != nil {
				return models.Mission{}, err
			}
			m.Targets, err = d.targetRepository.GetByMissionIdWithTx(ctx, tx, missionId)
			if err != nil {
				return models.Mission{}, err
			}
			return m, nil
		})
	if err != nil {
		return models.Mission{}, missionError(err)
	}
	d.notify(ctx, events.MissionCompleted, missionId, nil)
	return mission, nil
}

// Delete removes an unassigned mission and, through the foreign key, its targets.
func (d *DefaultMissionService) Delete(ctx context.Context, missionId int64) error {
	mission, err := d.missionRepository.GetById(ctx, missionId)
	if err != nil {
		return missionError(err)
	}
	if mission.IsAssigned() {
		return myerrors.Conflict("Mission already assigned to a cat, cannot delete")
	}
	if err := d.missionRepository.Delete(ctx, missionId); err != nil {
		return missionError(err)
	}
	d.notify(ctx, events.MissionDeleted, missionId, nil)
	return nil
}

func (d *DefaultMissionService) ensureCatAvailable(ctx context.Context, catId int64) error {
	cat, err := d.catRepository.GetById(ctx, catId)
	if err != nil {
		return catError(err)
	}
	busy, err := d.catRepository.IsBusy(ctx, catId)
	if err != nil {
		return err
	}
	if busy {
		return myerrors.Conflict("Cat %s already has an active mission", cat.Name)
	}
	return nil
}

func missionError(err error) error {
	if errors.Is(err, repositories.ErrMissionNotFound) {
		return myerrors.NotFound("Mission not found")
	}
	return err
}
