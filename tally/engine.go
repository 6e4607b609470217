package tally

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/electra-shield/voting-backend/alert"
	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/config"
	"github.com/electra-shield/voting-backend/db/dao"
	"github.com/electra-shield/voting-backend/db/model"
	"github.com/electra-shield/voting-backend/encryption"
	"github.com/electra-shield/voting-backend/logging"
	"github.com/electra-shield/voting-backend/metrics"
)

// Snapshot is a derived view of the ledger, recomputable at any time. It is
// never written back to storage.
type Snapshot struct {
	Results      map[string]int64
	TotalBallots int64
	Spoiled      int64
	ComputedAt   time.Time
}

// Engine aggregates the ledger into per-candidate counts. It is the only
// component holding the decrypting side of the election key.
type Engine struct {
	daoManager    *dao.DaoManager
	decrypter     encryption.Decrypter
	metricService *metrics.MetricService
	alertConfig   *config.AlertConfig
}

func NewEngine(daoManager *dao.DaoManager, decrypter encryption.Decrypter, metricService *metrics.MetricService, alertConfig *config.AlertConfig) *Engine {
	return &Engine{
		daoManager:    daoManager,
		decrypter:     decrypter,
		metricService: metricService,
		alertConfig:   alertConfig,
	}
}

// Tally decrypts every ledger entry and folds the counts. The fold is
// commutative, so the result depends only on the set of ballots; running it
// twice on an unchanged ledger yields identical snapshots. Candidates with
// no ballots report zero, including candidates added after ballots existed.
func (e *Engine) Tally(ctx context.Context) (*Snapshot, error) {
	if e.decrypter == nil {
		alert.SendTelegramMessage(e.alertConfig.Identity, e.alertConfig.TelegramBotId, e.alertConfig.TelegramChatId,
			"tally requested but no tally key is available")
		return nil, common.ErrTallyUnavailable
	}

	startTime := time.Now()

	var candidates []*model.Candidate
	var ballots []*model.Ballot
	err := retry.Do(func() error {
		var err error
		candidates, err = e.daoManager.GetAllCandidates()
		if err != nil {
			return err
		}
		ballots, err = e.daoManager.GetBallotSnapshot()
		return err
	}, common.RetryAttempts, common.RetryDelay, common.RetryErr, retry.Context(ctx))
	if err != nil {
		logging.Logger.Errorf("tally failed to read ledger, err=%+v", err.Error())
		return nil, common.ErrStorage
	}

	results := make(map[string]int64, len(candidates))
	for _, candidate := range candidates {
		results[candidate.Id] = 0
	}

	var spoiled int64
	for _, ballot := range ballots {
		candidateId, err := e.decrypter.Decrypt(ballot.EncryptedChoice)
		if err != nil {
			logging.Logger.Errorf("ballot %s failed to decrypt, err=%+v", ballot.BallotId, err.Error())
			e.metricService.IncSpoiledBallots()
			spoiled++
			continue
		}
		if _, ok := results[candidateId]; !ok {
			// A ballot for an unknown candidate id cannot be counted
			// toward any listed candidate.
			logging.Logger.Errorf("ballot %s references unknown candidate %s", ballot.BallotId, candidateId)
			e.metricService.IncSpoiledBallots()
			spoiled++
			continue
		}
		results[candidateId]++
	}

	if spoiled > 0 {
		alert.SendTelegramMessage(e.alertConfig.Identity, e.alertConfig.TelegramBotId, e.alertConfig.TelegramChatId,
			"tally run skipped undecryptable ballots, ledger needs audit review")
	}

	e.metricService.IncTallyRuns()
	e.metricService.SetTallyDuration(time.Since(startTime))
	e.metricService.SetTalliedBallots(int64(len(ballots)) - spoiled)
	logging.Logger.Infof("tally complete, ballots=%d, spoiled=%d", len(ballots), spoiled)

	return &Snapshot{
		Results:      results,
		TotalBallots: int64(len(ballots)),
		Spoiled:      spoiled,
		ComputedAt:   time.Now(),
	}, nil
}
