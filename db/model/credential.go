package model

import (
	"gorm.io/gorm"
)

// BiometricCredential binds an enrolled platform credential to one voter.
// Challenge is the pending login nonce for this credential, cleared once a
// login attempt consumes it.
type BiometricCredential struct {
	Id                 int64
	CredentialId       string `gorm:"NOT NULL;uniqueIndex:idx_credential_id;size:36"`
	VoterId            string `gorm:"NOT NULL;index:idx_credential_voter;size:36"`
	PublicKey          []byte `gorm:"NOT NULL;type:blob"`
	Challenge          []byte `gorm:"type:blob"`
	ChallengeExpiresAt int64
	EnrolledAt         int64 `gorm:"NOT NULL"`
}

func (*BiometricCredential) TableName() string {
	return "biometric_credentials"
}

func InitBiometricCredentialTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&BiometricCredential{}) {
		err := db.Migrator().CreateTable(&BiometricCredential{})
		if err != nil {
			panic(err)
		}
	}
}
