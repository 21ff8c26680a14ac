package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/4oBuko/spy-cat-agency-records/internal/models"
)

var ErrTargetNotFound = errors.New("target not found")

type TargetRepository interface {
	Add(ctx context.Context, target models.Target) (models.Target, error)
	GetAll(ctx context.Context) ([]models.Target, error)
	GetByMissionId(ctx context.Context, id int64) ([]models.Target, error)
	GetById(ctx context.Context, id int64) (models.Target, error)
	UpdateNotes(ctx context.Context, id int64, notes string) error
	Complete(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type TxTargetRepository interface {
	TargetRepository
	AddWithTx(ctx context.Context, tx *sql.Tx, target models.Target) (models.Target, error)
	GetByMissionIdWithTx(ctx context.Context, tx *sql.Tx, id int64) ([]models.Target, error)
	CompleteByMissionWithTx(ctx context.Context, tx *sql.Tx, missionId int64) error
}

type MySQLTargetRepository struct {
	db *sql.DB
}

func NewMySQLTargetRepository(db *sql.DB) *MySQLTargetRepository {
	return &MySQLTargetRepository{
		db: db,
	}
}

const targetColumns = `id, mission_id, target_name, country, notes, completed`

func (m *MySQLTargetRepository) Add(ctx context.Context, target models.Target) (models.Target, error) {
	return m.add(ctx, m.db, target)
}

func (m *MySQLTargetRepository) AddWithTx(ctx context.Context, tx *sql.Tx, target models.Target) (models.Target, error) {
	return m.add(ctx, tx, target)
}

func (m *MySQLTargetRepository) add(ctx context.Context, querier Querier, target models.Target) (models.Target, error) {
	createTargetQuery := `INSERT INTO targets (mission_id, target_name, country, notes, completed) VALUES (?, ?, ?, ?, ?)`
	result, err := querier.ExecContext(ctx, createTargetQuery,
		nullableId(target.MissionId), target.Name, target.Country, target.Notes, target.Complete)
	if err != nil {
		return models.Target{}, fmt.Errorf("failed to add new target: %w", err)
	}
	target.Id, err = result.LastInsertId()
	if err != nil {
		return models.Target{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return target, nil
}

func (m *MySQLTargetRepository) GetAll(ctx context.Context) ([]models.Target, error) {
	getAllQuery := `SELECT ` + targetColumns + ` FROM targets ORDER BY id`
	return m.query(ctx, m.db, getAllQuery)
}

func (m *MySQLTargetRepository) GetByMissionId(ctx context.Context, id int64) ([]models.Target, error) {
	return m.getByMissionId(ctx, m.db, id)
}

func (m *MySQLTargetRepository) GetByMissionIdWithTx(ctx context.Context, tx *sql.Tx, id int64) ([]models.Target, error) {
	return m.getByMissionId(ctx, tx, id)
}

func (m *MySQLTargetRepository) getByMissionId(ctx context.Context, querier Querier, id int64) ([]models.Target, error) {
	getByMissionIdQuery := `SELECT ` + targetColumns + ` FROM targets WHERE mission_id = ? ORDER BY id`
	return m.query(ctx, querier, getByMissionIdQuery, id)
}

func (m *MySQLTargetRepository) query(ctx context.Context, querier Querier, query string, args ...any) ([]models.Target, error) {
	targets := []models.Target{}
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return targets, nil
}

func (m *MySQLTargetRepository) GetById(ctx context.Context, id int64) (models.Target, error) {
	getByIdQuery := `SELECT ` + targetColumns + ` FROM targets WHERE id = ?`
	t, err := scanTarget(m.db.QueryRowContext(ctx, getByIdQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Target{}, ErrTargetNotFound
		}
		return models.Target{}, err
	}
	return t, nil
}

func (m *MySQLTargetRepository) CompleteByMissionWithTx(ctx context.Context, tx *sql.Tx, missionId int64) error {
	completeQuery := `UPDATE targets SET completed = ? WHERE mission_id = ?`
	_, err := tx.ExecContext(ctx, completeQuery, true, missionId)
	if err != nil {
		return fmt.Errorf("failed to complete mission targets: %w", err)
	}
	return nil
}

// Complete marks one target complete. MySQL reports no affected rows when
// the target already is, so a missing row is detected by a lookup.
func (m *MySQLTargetRepository) Complete(ctx context.Context, id int64) error {
	if _, err := m.GetById(ctx, id); err != nil {
		return err
	}
	completeQuery := `UPDATE targets SET completed = ? WHERE id = ?`
	_, err := m.db.ExecContext(ctx, completeQuery, true, id)
	if err != nil {
		return fmt.Errorf("failed to complete target: %w", err)
	}
	return nil
}

func (m *MySQLTargetRepository) UpdateNotes(ctx context.Context, id int64, notes string) error {
	updateQuery := `UPDATE targets SET notes = ? WHERE id = ?`
	_, err := m.db.ExecContext(ctx, updateQuery, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update target notes: %w", err)
	}
	return nil
}

func (m *MySQLTargetRepository) Delete(ctx context.Context, id int64) error {
	deleteQuery := `DELETE FROM targets WHERE id = ?`
	res, err := m.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	return requireAffected(res, ErrTargetNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTarget(row rowScanner) (models.Target, error) {
	var t models.Target
	var missionId sql.NullInt64
	if err := row.Scan(&t.Id, &missionId, &t.Name, &t.Country, &t.Notes, &t.Complete); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Target{}, err
		}
		return models.Target{}, fmt.Errorf("scan failed: %w", err)
	}
	t.MissionId = idFromNull(missionId)
	return t, nil
}
