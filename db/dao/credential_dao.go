package dao

import (
	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/db/model"
)

type CredentialDao struct {
	DB *gorm.DB
}

func NewCredentialDao(db *gorm.DB) *CredentialDao {
	return &CredentialDao{
		DB: db,
	}
}

func (d *CredentialDao) SaveCredential(credential *model.BiometricCredential) error {
	return d.DB.Create(credential).Error
}

func (d *CredentialDao) GetCredentialById(credentialId string) (*model.BiometricCredential, error) {
	var credential model.BiometricCredential
	err := d.DB.Where("credential_id = ?", credentialId).Take(&credential).Error
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

func (d *CredentialDao) UpdateCredentialChallenge(credentialId string, challenge []byte, expiresAt int64) error {
	return d.DB.Model(&model.BiometricCredential{}).
		Where("credential_id = ?", credentialId).
		Updates(map[string]interface{}{
			"challenge":            challenge,
			"challenge_expires_at": expiresAt,
		}).Error
}
