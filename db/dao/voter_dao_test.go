package dao

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/db/model"
)

type voterSuite struct {
	suite.Suite
	dao *VoterDao
	db  *Database
}

func TestVoterSuite(t *testing.T) {
	suite.Run(t, new(voterSuite))
}

func (s *voterSuite) SetupSuite() {
	db, err := RunDB("voter_dao_test")
	s.Require().NoError(err)
	s.db = db
}

func (s *voterSuite) TearDownSuite() {
	err := s.db.StopDB()
	s.Require().NoError(err)
}

func (s *voterSuite) SetupTest() {
	model.InitVoterTable(s.db.DB)

	s.dao = NewVoterDao(s.db.DB)
}

func (s *voterSuite) TearDownTest() {
	err := s.db.ClearDB()
	s.Require().NoError(err)
}

func (s *voterSuite) createVoter(phone string) *model.Voter {
	return &model.Voter{
		Id:           uuid.NewString(),
		Name:         "John Voter",
		Phone:        phone,
		AddressId:    "addr-1",
		RegisteredAt: time.Now().Unix(),
	}
}

func (s *voterSuite) TestVoterDao_SaveVoter() {
	voter := s.createVoter("9876543210")
	err := s.dao.SaveVoter(voter)
	s.Require().NoError(err, "failed to save")
}

func (s *voterSuite) TestVoterDao_SaveVoterDuplicatePhone() {
	voter := s.createVoter("9876543210")
	err := s.dao.SaveVoter(voter)
	s.Require().NoError(err, "failed to save")

	dup := s.createVoter("9876543210")
	err = s.dao.SaveVoter(dup)
	s.Require().ErrorIs(err, common.ErrPhoneTaken)
}

func (s *voterSuite) TestVoterDao_GetVoterByPhone() {
	voter := s.createVoter("9876543210")
	_ = s.dao.SaveVoter(voter)

	result, err := s.dao.GetVoterByPhone(voter.Phone)
	s.Require().NoError(err, "failed to query")
	s.Require().Equal(voter.Id, result.Id)
	s.Require().False(result.HasVoted)
}

func (s *voterSuite) TestVoterDao_IsPhoneRegistered() {
	voter := s.createVoter("9876543210")
	_ = s.dao.SaveVoter(voter)

	registered, err := s.dao.IsPhoneRegistered(voter.Phone)
	s.Require().NoError(err, "failed to query")
	s.Require().True(registered)

	registered, err = s.dao.IsPhoneRegistered("0000000000")
	s.Require().NoError(err, "failed to query")
	s.Require().True(!registered)
}

func (s *voterSuite) TestVoterDao_CountVoters() {
	_ = s.dao.SaveVoter(s.createVoter("9876543210"))
	_ = s.dao.SaveVoter(s.createVoter("9876543211"))

	count, err := s.dao.CountVoters()
	s.Require().NoError(err, "failed to query")
	s.Require().Equal(int64(2), count)
}
