package models

const (
	MinMissionTargets = 1
	MaxMissionTargets = 3
)

type Mission struct {
	Id       int64    `json:"id" db:"id"`
	CatId    *int64   `json:"cat_id" db:"cat_id" binding:"omitempty,gt=0"`
	Targets  []Target `json:"targets" binding:"dive"`
	Complete bool     `json:"complete" db:"completed"`
}

// SetCatId assigns the mission to the given cat.
func (m *Mission) SetCatId(catId int64) {
	m.CatId = &catId
}

// IsAssigned reports whether a cat is attached to the mission.
func (m Mission) IsAssigned() bool {
	return m.CatId != nil
}
