package dao

import (
	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/db/model"
)

type CandidateDao struct {
	DB *gorm.DB
}

func NewCandidateDao(db *gorm.DB) *CandidateDao {
	return &CandidateDao{
		DB: db,
	}
}

func (d *CandidateDao) SaveCandidate(candidate *model.Candidate) error {
	return d.DB.Create(candidate).Error
}

func (d *CandidateDao) GetAllCandidates() ([]*model.Candidate, error) {
	candidates := make([]*model.Candidate, 0)
	err := d.DB.Order("created_at asc").Find(&candidates).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return candidates, nil
}

func (d *CandidateDao) IsCandidateExists(id string) (bool, error) {
	var count int64
	err := d.DB.Model(&model.Candidate{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
