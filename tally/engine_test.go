package tally

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/config"
	"github.com/electra-shield/voting-backend/db/dao"
	"github.com/electra-shield/voting-backend/db/model"
	"github.com/electra-shield/voting-backend/encryption"
	"github.com/electra-shield/voting-backend/metrics"
)

func newTestEngine(t *testing.T, name string) (*Engine, encryption.Scheme, *dao.DaoManager) {
	t.Helper()

	db, err := dao.RunDB(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.StopDB() })

	model.InitCandidateTable(db.DB)
	model.InitBallotTable(db.DB)

	daoManager := dao.NewDaoManager(
		dao.NewVoterDao(db.DB),
		dao.NewOtpDao(db.DB),
		dao.NewSessionDao(db.DB),
		dao.NewCandidateDao(db.DB),
		dao.NewBallotDao(db.DB),
		dao.NewCredentialDao(db.DB),
	)

	scheme, err := encryption.GenerateEciesScheme()
	require.NoError(t, err)

	engine := NewEngine(daoManager, scheme, metrics.NewMetricService(&config.Config{}), &config.AlertConfig{})
	return engine, scheme, daoManager
}

func addCandidate(t *testing.T, daoManager *dao.DaoManager, id, name string) {
	t.Helper()
	err := daoManager.SaveCandidate(&model.Candidate{
		Id:        id,
		Name:      name,
		CreatedAt: time.Now().Unix(),
	})
	require.NoError(t, err)
}

func appendBallot(t *testing.T, daoManager *dao.DaoManager, ciphertext []byte) {
	t.Helper()
	err := daoManager.BallotDao.DB.Create(&model.Ballot{
		BallotId:        uuid.NewString(),
		EncryptedChoice: ciphertext,
		CastAt:          time.Now().Unix(),
	}).Error
	require.NoError(t, err)
}

func TestTallyCountsBallots(t *testing.T) {
	engine, scheme, daoManager := newTestEngine(t, "tally_counts")
	ctx := context.Background()

	addCandidate(t, daoManager, "candidate-a", "Alice")
	addCandidate(t, daoManager, "candidate-b", "Bob")

	for i := 0; i < 3; i++ {
		ciphertext, err := scheme.Encrypt("candidate-a")
		require.NoError(t, err)
		appendBallot(t, daoManager, ciphertext)
	}
	ciphertext, err := scheme.Encrypt("candidate-b")
	require.NoError(t, err)
	appendBallot(t, daoManager, ciphertext)

	snapshot, err := engine.Tally(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), snapshot.Results["candidate-a"])
	require.Equal(t, int64(1), snapshot.Results["candidate-b"])
	require.Equal(t, int64(4), snapshot.TotalBallots)
	require.Equal(t, int64(0), snapshot.Spoiled)
}

func TestTallyIsRepeatable(t *testing.T) {
	engine, scheme, daoManager := newTestEngine(t, "tally_repeatable")
	ctx := context.Background()

	addCandidate(t, daoManager, "candidate-a", "Alice")
	ciphertext, err := scheme.Encrypt("candidate-a")
	require.NoError(t, err)
	appendBallot(t, daoManager, ciphertext)

	first, err := engine.Tally(ctx)
	require.NoError(t, err)
	second, err := engine.Tally(ctx)
	require.NoError(t, err)

	require.Equal(t, first.Results, second.Results)
	require.Equal(t, first.TotalBallots, second.TotalBallots)
	require.Equal(t, first.Spoiled, second.Spoiled)
}

func TestTallyZeroForLateCandidate(t *testing.T) {
	engine, scheme, daoManager := newTestEngine(t, "tally_late_candidate")
	ctx := context.Background()

	addCandidate(t, daoManager, "candidate-a", "Alice")
	ciphertext, err := scheme.Encrypt("candidate-a")
	require.NoError(t, err)
	appendBallot(t, daoManager, ciphertext)

	// A candidate registered after ballots exist still reports an explicit
	// zero instead of being absent.
	addCandidate(t, daoManager, "candidate-c", "Carol")

	snapshot, err := engine.Tally(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), snapshot.Results["candidate-a"])
	count, ok := snapshot.Results["candidate-c"]
	require.True(t, ok)
	require.Equal(t, int64(0), count)
}

func TestTallySpoilsBadBallots(t *testing.T) {
	engine, scheme, daoManager := newTestEngine(t, "tally_spoiled")
	ctx := context.Background()

	addCandidate(t, daoManager, "candidate-a", "Alice")

	ciphertext, err := scheme.Encrypt("candidate-a")
	require.NoError(t, err)
	appendBallot(t, daoManager, ciphertext)

	// Garbage that no key can open.
	appendBallot(t, daoManager, []byte("not-a-ciphertext"))

	// Well formed but for a candidate nobody registered.
	unknown, err := scheme.Encrypt("candidate-ghost")
	require.NoError(t, err)
	appendBallot(t, daoManager, unknown)

	snapshot, err := engine.Tally(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), snapshot.Results["candidate-a"])
	require.Equal(t, int64(3), snapshot.TotalBallots)
	require.Equal(t, int64(2), snapshot.Spoiled)
}

func TestTallyWithoutKey(t *testing.T) {
	_, _, daoManager := newTestEngine(t, "tally_no_key")

	engine := NewEngine(daoManager, nil, metrics.NewMetricService(&config.Config{}), &config.AlertConfig{})
	_, err := engine.Tally(context.Background())
	require.ErrorIs(t, err, common.ErrTallyUnavailable)
}

func TestTallyEmptyLedger(t *testing.T) {
	engine, _, daoManager := newTestEngine(t, "tally_empty")

	addCandidate(t, daoManager, "candidate-a", "Alice")

	snapshot, err := engine.Tally(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), snapshot.Results["candidate-a"])
	require.Equal(t, int64(0), snapshot.TotalBallots)
}
