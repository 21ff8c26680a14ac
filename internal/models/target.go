package models

type Target struct {
	Id        int64  `json:"id" db:"id"`
	MissionId *int64 `json:"mission_id" db:"mission_id" binding:"omitempty,gt=0"`
	Name      string `json:"name" db:"target_name" binding:"required,min=1,max=120"`
	Country   string `json:"country" db:"country" binding:"required,min=1,max=120"`
	Notes     string `json:"notes" db:"notes"`
	Complete  bool   `json:"complete" db:"completed"`
}

type TargetUpdate struct {
	Notes *string `json:"notes" binding:"required"`
}
