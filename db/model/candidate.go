package model

import (
	"gorm.io/gorm"
)

// Candidate rows are append-only. Once ballots reference a candidate it can
// no longer be removed, so no delete path exists at all.
type Candidate struct {
	Id        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"NOT NULL"`
	Party     string `gorm:"size:128"`
	ImageRef  string `gorm:"size:256"`
	CreatedAt int64  `gorm:"NOT NULL"`
}

func (*Candidate) TableName() string {
	return "candidates"
}

func InitCandidateTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&Candidate{}) {
		err := db.Migrator().CreateTable(&Candidate{})
		if err != nil {
			panic(err)
		}
	}
}
