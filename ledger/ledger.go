package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/db/dao"
	"github.com/electra-shield/voting-backend/db/model"
	"github.com/electra-shield/voting-backend/logging"
	"github.com/electra-shield/voting-backend/metrics"
	"github.com/electra-shield/voting-backend/util"
)

// Ledger is the append-only ballot store. Casting for one voter is
// serialized on the voter id and the has_voted flip happens in the same
// transaction as the ballot insert, so two concurrent casts cannot both
// pass the check.
type Ledger struct {
	daoManager    *dao.DaoManager
	metricService *metrics.MetricService
	voterLocks    *util.KeyedMutex
	castTimeout   time.Duration
}

func NewLedger(daoManager *dao.DaoManager, metricService *metrics.MetricService, castTimeout time.Duration) *Ledger {
	return &Ledger{
		daoManager:    daoManager,
		metricService: metricService,
		voterLocks:    util.NewKeyedMutex(),
		castTimeout:   castTimeout,
	}
}

// CastVote appends one encrypted ballot for the voter and returns the ballot
// id. The ballot row carries no voter reference; the only linkage is the
// one-way has_voted flag.
func (l *Ledger) CastVote(ctx context.Context, voterId string, ciphertext []byte) (string, error) {
	if voterId == "" {
		return "", common.ErrUnauthenticated
	}
	if len(ciphertext) == 0 {
		return "", common.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, l.castTimeout)
	defer cancel()

	startTime := time.Now()

	unlock := l.voterLocks.Lock(voterId)
	defer unlock()

	if err := ctx.Err(); err != nil {
		l.metricService.IncVotesRejected()
		return "", common.ErrTimeout
	}

	voter, err := l.daoManager.GetVoterById(voterId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.metricService.IncVotesRejected()
			return "", common.ErrUnauthenticated
		}
		return "", err
	}
	if voter.HasVoted {
		l.metricService.IncVotesRejected()
		return "", common.ErrAlreadyVoted
	}

	ballot := &model.Ballot{
		BallotId:        uuid.NewString(),
		EncryptedChoice: ciphertext,
		CastAt:          time.Now().Unix(),
	}
	if err := l.daoManager.SaveBallotAndMarkVoted(ballot, voterId); err != nil {
		if errors.Is(err, common.ErrAlreadyVoted) {
			l.metricService.IncVotesRejected()
			return "", common.ErrAlreadyVoted
		}
		logging.Logger.Errorf("failed to append ballot for voter %s, err=%+v", voterId, err.Error())
		return "", common.ErrStorage
	}

	l.metricService.IncVotesAccepted()
	l.metricService.SetCastDuration(time.Since(startTime))
	logging.Logger.Infof("ballot %s appended", ballot.BallotId)
	return ballot.BallotId, nil
}
