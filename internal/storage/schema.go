package storage

// Table layouts for AutoMigrate. Repositories query these tables with plain
// SQL; the structs only describe columns and constraints.

type catRow struct {
	ID                int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name              string  `gorm:"column:cat_name;size:50;not null"`
	YearsOfExperience int     `gorm:"column:years_of_experience;not null;default:0"`
	Breed             string  `gorm:"column:breed;size:120;not null"`
	Salary            float64 `gorm:"column:salary;not null;default:0"`
}

func (catRow) TableName() string { return "cats" }

type missionRow struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement"`
	CatID     *int64  `gorm:"column:cat_id;index"`
	Completed bool    `gorm:"column:completed;not null;default:false"`
	Cat       *catRow `gorm:"foreignKey:CatID;references:ID;constraint:OnDelete:SET NULL"`
}

func (missionRow) TableName() string { return "missions" }

type targetRow struct {
	ID        int64       `gorm:"column:id;primaryKey;autoIncrement"`
	MissionID *int64      `gorm:"column:mission_id;index"`
	Name      string      `gorm:"column:target_name;size:120;not null"`
	Country   string      `gorm:"column:country;size:120;not null"`
	Notes     string      `gorm:"column:notes;type:text;not null"`
	Completed bool        `gorm:"column:completed;not null;default:false"`
	Mission   *missionRow `gorm:"foreignKey:MissionID;references:ID;constraint:OnDelete:CASCADE"`
}

func (targetRow) TableName() string { return "targets" }

var allModels = []any{&catRow{}, &missionRow{}, &targetRow{}}
