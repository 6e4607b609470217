package wiper

import (
	"time"

	"github.com/electra-shield/voting-backend/db/dao"
	"github.com/electra-shield/voting-backend/logging"
)

// DBWiper evicts expired OTP challenges and sessions. Ballots and voters
// are never wiped; the ledger is append-only for the whole cycle.
type DBWiper struct {
	daoManager *dao.DaoManager
}

func NewDBWiper(dao *dao.DaoManager) *DBWiper {
	return &DBWiper{
		daoManager: dao,
	}
}

func (w *DBWiper) DBWipeLoop() {
	ticker := time.NewTicker(WipeInterval)
	for range ticker.C {
		err := w.DBWipe()
		if err != nil {
			logging.Logger.Errorf("db wipe error, err=%+v", err.Error())
			time.Sleep(RetryInterval)
		}
	}
}

func (w *DBWiper) DBWipe() error {
	now := time.Now().Unix()
	err := w.daoManager.DeleteChallengesBefore(now)
	if err != nil {
		return err
	}
	err = w.daoManager.DeleteSessionsBefore(now)
	if err != nil {
		return err
	}
	return nil
}
