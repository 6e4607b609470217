package dao

import (
	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/db/model"
)

type BallotDao struct {
	DB *gorm.DB
}

func NewBallotDao(db *gorm.DB) *BallotDao {
	return &BallotDao{
		DB: db,
	}
}

// SaveBallotAndMarkVoted appends the ballot and flips the voter's has_voted
// flag in one transaction. The conditional update is the double-vote guard:
// if another transaction already flipped the flag, zero rows match and the
// whole transaction rolls back with ErrAlreadyVoted.
func (d *BallotDao) SaveBallotAndMarkVoted(ballot *model.Ballot, voterId string) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Voter{}).
			Where("id = ? and has_voted = ?", voterId, false).
			Update("has_voted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrAlreadyVoted
		}
		return tx.Create(ballot).Error
	})
}

// GetBallotSnapshot reads every ledger entry inside a single transaction so
// a concurrent cast never contributes a half-written row to a tally.
func (d *BallotDao) GetBallotSnapshot() ([]*model.Ballot, error) {
	ballots := make([]*model.Ballot, 0)
	err := d.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Order("id asc").Find(&ballots).Error
	})
	if err != nil {
		return nil, err
	}
	return ballots, nil
}

func (d *BallotDao) CountBallots() (int64, error) {
	var count int64
	err := d.DB.Model(&model.Ballot{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
