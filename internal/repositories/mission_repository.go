package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/4oBuko/spy-cat-agency-records/internal/models"
)

var ErrMissionNotFound = errors.New("mission not found")

type MissionRepository interface {
	Add(ctx context.Context, mission models.Mission) (models.Mission, error)
	GetById(ctx context.Context, id int64) (models.Mission, error)
	GetAll(ctx context.Context) ([]models.Mission, error)
	Assign(ctx context.Context, missionId, catId int64) error
	Complete(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type TxMissionRepository interface {
	MissionRepository
	AddWithTx(ctx context.Context, tx *sql.Tx, mission models.Mission) (models.Mission, error)
	GetByIdWithTx(ctx context.Context, tx *sql.Tx, id int64) (models.Mission, error)
	CompleteWithTx(ctx context.Context, tx *sql.Tx, id int64) error
	WithTransaction(ctx context.Context, fn func(*sql.Tx) (models.Mission, error)) (models.Mission, error)
}

type MySQLMissionRepository struct {
	db *sql.DB
}

func NewMySQLMissionRepository(db *sql.DB) *MySQLMissionRepository {
	return &MySQLMissionRepository{
		db: db,
	}
}

func (m *MySQLMissionRepository) Add(ctx context.Context, mission models.Mission) (models.Mission, error) {
	return m.add(ctx, m.db, mission)
}

func (m *MySQLMissionRepository) AddWithTx(ctx context.Context, tx *sql.Tx, mission models.Mission) (models.Mission, error) {
	return m.add(ctx, tx, mission)
}

// add stores the mission row only; targets are written by the target repository.
func (m *MySQLMissionRepository) add(ctx context.Context, querier Querier, mission models.Mission) (models.Mission, error) {
	newMissionQuery := `INSERT INTO missions (cat_id, completed) VALUES (?, ?)`
	result, err := querier.ExecContext(ctx, newMissionQuery, nullableId(mission.CatId), mission.Complete)
	if err != nil {
		return models.Mission{}, fmt.Errorf("failed to add new mission: %w", err)
	}
	mission.Id, err = result.LastInsertId()
	if err != nil {
		return models.Mission{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return mission, nil
}

// WithTransaction runs fn inside a transaction that is committed only when fn
// succeeds.
func (m *MySQLMissionRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) (models.Mission, error)) (models.Mission, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Mission{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	mission, err := fn(tx)
	if err != nil {
		return models.Mission{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Mission{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return mission, nil
}

func (m *MySQLMissionRepository) GetById(ctx context.Context, id int64) (models.Mission, error) {
	return m.getById(ctx, m.db, id)
}

func (m *MySQLMissionRepository) GetByIdWithTx(ctx context.Context, tx *sql.Tx, id int64) (models.Mission, error) {
	return m.getById(ctx, tx, id)
}

func (m *MySQLMissionRepository) getById(ctx context.Context, querier Querier, id int64) (models.Mission, error) {
	var mission models.Mission
	var catId sql.NullInt64
	getByIdQuery := `SELECT id, cat_id, completed FROM missions WHERE id = ?`
	err := querier.QueryRowContext(ctx, getByIdQuery, id).
		Scan(&mission.Id, &catId, &mission.Complete)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Mission{}, ErrMissionNotFound
		}
		return models.Mission{}, fmt.Errorf("failed to get mission by id: %w", err)
	}
	mission.CatId = idFromNull(catId)
	return mission, nil
}

func (m *MySQLMissionRepository) GetAll(ctx context.Context) ([]models.Mission, error) {
	missions := []models.Mission{}
	getAllQuery := `SELECT id, cat_id, completed FROM missions ORDER BY id`
	rows, err := m.db.QueryContext(ctx, getAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get all missions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ms models.Mission
		var catId sql.NullInt64
		if err := rows.Scan(&ms.Id, &catId, &ms.Complete); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		ms.CatId = idFromNull(catId)
		missions = append(missions, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return missions, nil
}

func (m *MySQLMissionRepository) Assign(ctx context.Context, missionId, catId int64) error {
	assignMissionQuery := `UPDATE missions SET cat_id = ? WHERE id = ?`
	_, err := m.db.ExecContext(ctx, assignMissionQuery, catId, missionId)
	if err != nil {
		return fmt.Errorf("failed to assign mission: %w", err)
	}
	return nil
}

func (m *MySQLMissionRepository) Complete(ctx context.Context, id int64) error {
	return m.complete(ctx, m.db, id)
}

func (m *MySQLMissionRepository) CompleteWithTx(ctx context.Context, tx *sql.Tx, id int64) error {
	return m.complete(ctx, tx, id)
}

func (m *MySQLMissionRepository) complete(ctx context.Context, querier Querier, id int64) error {
	completeQuery := `UPDATE missions SET completed = ? WHERE id = ?`
	_, err := querier.ExecContext(ctx, completeQuery, true, id)
	if err != nil {
		return fmt.Errorf("failed to complete mission: %w", err)
	}
	return nil
}

func (m *MySQLMissionRepository) Delete(ctx context.Context, id int64) error {
	deleteQuery := `DELETE FROM missions WHERE id = ?`
	res, err := m.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	return requireAffected(res, ErrMissionNotFound)
}

func nullableId(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idFromNull(id sql.NullInt64) *int64 {
	if !id.Valid {
		return nil
	}
	v := id.Int64
	return &v
}
