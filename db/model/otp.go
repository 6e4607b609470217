package model

import (
	"gorm.io/gorm"
)

// OtpChallenge holds at most one active challenge per phone. Reissuing a
// code replaces the row; verification or expiry deletes it.
type OtpChallenge struct {
	Id           int64
	Phone        string `gorm:"NOT NULL;uniqueIndex:idx_otp_phone;size:32"`
	Code         string `gorm:"NOT NULL;size:16"`
	IssuedAt     int64  `gorm:"NOT NULL"`
	ExpiresAt    int64  `gorm:"NOT NULL"`
	AttemptCount int    `gorm:"NOT NULL"`
}

func (*OtpChallenge) TableName() string {
	return "otp_challenges"
}

func InitOtpChallengeTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&OtpChallenge{}) {
		err := db.Migrator().CreateTable(&OtpChallenge{})
		if err != nil {
			panic(err)
		}
	}
}
