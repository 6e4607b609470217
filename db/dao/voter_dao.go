package dao

import (
	"errors"

	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/db/model"
)

type VoterDao struct {
	DB *gorm.DB
}

func NewVoterDao(db *gorm.DB) *VoterDao {
	return &VoterDao{
		DB: db,
	}
}

// SaveVoter inserts a new voter. The unique index on phone is the final
// arbiter of one-voter-per-phone; a duplicate insert maps to ErrPhoneTaken.
func (d *VoterDao) SaveVoter(voter *model.Voter) error {
	err := d.DB.Create(voter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrPhoneTaken
		}
		return err
	}
	return nil
}

func (d *VoterDao) GetVoterByPhone(phone string) (*model.Voter, error) {
	var voter model.Voter
	err := d.DB.Where("phone = ?", phone).Take(&voter).Error
	if err != nil {
		return nil, err
	}
	return &voter, nil
}

func (d *VoterDao) GetVoterById(id string) (*model.Voter, error) {
	var voter model.Voter
	err := d.DB.Where("id = ?", id).Take(&voter).Error
	if err != nil {
		return nil, err
	}
	return &voter, nil
}

func (d *VoterDao) IsPhoneRegistered(phone string) (bool, error) {
	var count int64
	err := d.DB.Model(&model.Voter{}).Where("phone = ?", phone).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *VoterDao) CountVoters() (int64, error) {
	var count int64
	err := d.DB.Model(&model.Voter{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
