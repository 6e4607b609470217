package model

import (
	"gorm.io/gorm"
)

type Voter struct {
	Id           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"NOT NULL"`
	Phone        string `gorm:"NOT NULL;uniqueIndex:idx_voter_phone;size:32"`
	AddressId    string `gorm:"size:64"`
	PasswordHash string `gorm:"size:128"`
	HasVoted     bool   `gorm:"NOT NULL"`
	IsAdmin      bool   `gorm:"NOT NULL"`
	RegisteredAt int64  `gorm:"NOT NULL"`
}

func (*Voter) TableName() string {
	return "voters"
}

func InitVoterTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&Voter{}) {
		err := db.Migrator().CreateTable(&Voter{})
		if err != nil {
			panic(err)
		}
	}
}
