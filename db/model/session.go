package model

import (
	"gorm.io/gorm"
)

// Session is an opaque server-side token. The token carries no claims of its
// own, trust comes from this row and its expiry.
type Session struct {
	Id        int64
	Token     string `gorm:"NOT NULL;uniqueIndex:idx_session_token;size:64"`
	VoterId   string `gorm:"NOT NULL;index:idx_session_voter;size:36"`
	Role      string `gorm:"NOT NULL;size:16"`
	IssuedAt  int64  `gorm:"NOT NULL"`
	ExpiresAt int64  `gorm:"NOT NULL"`
}

func (*Session) TableName() string {
	return "sessions"
}

func InitSessionTable(db *gorm.DB) {
	if !db.Migrator().HasTable(&Session{}) {
		err := db.Migrator().CreateTable(&Session{})
		if err != nil {
			panic(err)
		}
	}
}
