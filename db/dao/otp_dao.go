package dao

import (
	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/db/model"
)

type OtpDao struct {
	DB *gorm.DB
}

func NewOtpDao(db *gorm.DB) *OtpDao {
	return &OtpDao{
		DB: db,
	}
}

// ReplaceChallenge drops any prior challenge for the phone and stores the
// new one, so a phone never holds two live codes.
func (d *OtpDao) ReplaceChallenge(challenge *model.OtpChallenge) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone = ?", challenge.Phone).Delete(&model.OtpChallenge{}).Error; err != nil {
			return err
		}
		return tx.Create(challenge).Error
	})
}

func (d *OtpDao) GetChallengeByPhone(phone string) (*model.OtpChallenge, error) {
	var challenge model.OtpChallenge
	err := d.DB.Where("phone = ?", phone).Take(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (d *OtpDao) DeleteChallengeByPhone(phone string) error {
	return d.DB.Where("phone = ?", phone).Delete(&model.OtpChallenge{}).Error
}

func (d *OtpDao) IncrementChallengeAttempt(id int64) error {
	return d.DB.Model(&model.OtpChallenge{}).
		Where("id = ?", id).
		Update("attempt_count", gorm.Expr("attempt_count + 1")).
		Error
}

func (d *OtpDao) DeleteChallengesBefore(unixTimestamp int64) error {
	return d.DB.Where("expires_at < ?", unixTimestamp).Delete(&model.OtpChallenge{}).Error
}
