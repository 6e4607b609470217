package model

import (
	"gorm.io/gorm"
)

// Ballot is an append-only ledger entry. It deliberately carries no voter
// column; the only link to the voter is the one-way has_voted flag flipped
// in the same transaction that inserts the row.
type Ballot struct {
	Id              int64
	BallotId        string `gorm:"NOT NULL;uniqueIndex:idx_ballot_id;size:36"`
	EncryptedChoice []byte `gorm:"NOT NULL;type:blob"`
	CastAt          int64  `gorm:"NOT NULL"`
}

func (*Ballot) TableName() string {
	return "ballots"
}

func InitBallotTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&Ballot{}) {
		err := db.Migrator().CreateTable(&Ballot{})
		if err != nil {
			panic(err)
		}
	}
}
