package dao

import (
	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/db/model"
)

type SessionDao struct {
	DB *gorm.DB
}

func NewSessionDao(db *gorm.DB) *SessionDao {
	return &SessionDao{
		DB: db,
	}
}

func (d *SessionDao) SaveSession(session *model.Session) error {
	return d.DB.Create(session).Error
}

func (d *SessionDao) GetSessionByToken(token string) (*model.Session, error) {
	var session model.Session
	err := d.DB.Where("token = ?", token).Take(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *SessionDao) DeleteSessionByToken(token string) error {
	return d.DB.Where("token = ?", token).Delete(&model.Session{}).Error
}

func (d *SessionDao) DeleteSessionsBefore(unixTimestamp int64) error {
	return d.DB.Where("expires_at < ?", unixTimestamp).Delete(&model.Session{}).Error
}
