package auth

import (
	"context"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/config"
	"github.com/electra-shield/voting-backend/db/dao"
	"github.com/electra-shield/voting-backend/db/model"
	"github.com/electra-shield/voting-backend/metrics"
	"github.com/electra-shield/voting-backend/otp"
)

type codeSender struct {
	code string
}

func (s *codeSender) Send(_ context.Context, _, code string) error {
	s.code = code
	return nil
}

func newTestService(t *testing.T, name string) (*Service, *codeSender, *dao.DaoManager) {
	t.Helper()

	db, err := dao.RunDB(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.StopDB() })

	model.InitVoterTable(db.DB)
	model.InitOtpChallengeTable(db.DB)
	model.InitSessionTable(db.DB)
	model.InitBiometricCredentialTable(db.DB)

	daoManager := dao.NewDaoManager(
		dao.NewVoterDao(db.DB),
		dao.NewOtpDao(db.DB),
		dao.NewSessionDao(db.DB),
		dao.NewCandidateDao(db.DB),
		dao.NewBallotDao(db.DB),
		dao.NewCredentialDao(db.DB),
	)

	metricService := metrics.NewMetricService(&config.Config{})
	sender := &codeSender{}
	otpManager := otp.NewManager(&config.OtpConfig{UseDevSender: true}, daoManager, sender, metricService)
	service := NewService(&config.AuthConfig{}, daoManager, otpManager, metricService)
	return service, sender, daoManager
}

func TestRegisterAndOtpLogin(t *testing.T) {
	service, sender, _ := newTestService(t, "auth_otp_login")
	ctx := context.Background()

	voterId, err := service.Register(ctx, "John Voter", "9876543210", "addr-1")
	require.NoError(t, err)
	require.NotEmpty(t, voterId)

	_, err = service.otpManager.RequestChallenge(ctx, "9876543210")
	require.NoError(t, err)

	session, err := service.Login(ctx, "9876543210", sender.code)
	require.NoError(t, err)
	require.Equal(t, voterId, session.VoterId)
	require.Equal(t, common.RoleVoter, session.Role)
	require.NotEmpty(t, session.Token)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	service, _, _ := newTestService(t, "auth_bad_input")
	ctx := context.Background()

	_, err := service.Register(ctx, "", "9876543210", "addr-1")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = service.Register(ctx, "John Voter", "not-a-phone", "addr-1")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	service, _, _ := newTestService(t, "auth_dup_phone")
	ctx := context.Background()

	_, err := service.Register(ctx, "John Voter", "9876543210", "addr-1")
	require.NoError(t, err)

	_, err = service.Register(ctx, "Jane Voter", "9876543210", "addr-2")
	require.ErrorIs(t, err, common.ErrPhoneTaken)
}

func TestLoginUnregisteredPhone(t *testing.T) {
	service, sender, _ := newTestService(t, "auth_unregistered")
	ctx := context.Background()

	// A valid OTP for a phone with no voter record must not open a session.
	_, err := service.otpManager.RequestChallenge(ctx, "9876543210")
	require.NoError(t, err)

	_, err = service.Login(ctx, "9876543210", sender.code)
	require.ErrorIs(t, err, common.ErrNotRegistered)

	// The code is spent either way.
	_, err = service.Login(ctx, "9876543210", sender.code)
	require.ErrorIs(t, err, common.ErrNoChallenge)
}

func TestLoginPassword(t *testing.T) {
	service, _, daoManager := newTestService(t, "auth_password")
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := &model.Voter{
		Id:           uuid.NewString(),
		Name:         "Admin",
		Phone:        "1000000000",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	require.NoError(t, daoManager.SaveVoter(admin))

	session, err := service.LoginPassword(ctx, "1000000000", "s3cret")
	require.NoError(t, err)
	require.Equal(t, common.RoleAdmin, session.Role)

	_, err = service.LoginPassword(ctx, "1000000000", "wrong")
	require.ErrorIs(t, err, common.ErrBadCredentials)

	_, err = service.LoginPassword(ctx, "0000000000", "s3cret")
	require.ErrorIs(t, err, common.ErrBadCredentials)
}

func TestLoginPasswordRejectsAccountsWithoutHash(t *testing.T) {
	service, _, _ := newTestService(t, "auth_no_hash")
	ctx := context.Background()

	_, err := service.Register(ctx, "John Voter", "9876543210", "addr-1")
	require.NoError(t, err)

	_, err = service.LoginPassword(ctx, "9876543210", "")
	require.ErrorIs(t, err, common.ErrBadCredentials)
}

func TestBiometricLogin(t *testing.T) {
	service, _, _ := newTestService(t, "auth_biometric")
	ctx := context.Background()

	voterId, err := service.Register(ctx, "John Voter", "9876543210", "addr-1")
	require.NoError(t, err)

	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	credentialId, err := service.EnrollBiometric(ctx, voterId, ethcrypto.FromECDSAPub(&key.PublicKey))
	require.NoError(t, err)

	nonce, err := service.BiometricChallenge(ctx, credentialId)
	require.NoError(t, err)
	require.Len(t, nonce, 32)

	signature, err := ethcrypto.Sign(ethcrypto.Keccak256(nonce), key)
	require.NoError(t, err)

	session, err := service.LoginBiometric(ctx, credentialId, signature)
	require.NoError(t, err)
	require.Equal(t, voterId, session.VoterId)

	// The nonce is single use; replaying the assertion is rejected.
	_, err = service.LoginBiometric(ctx, credentialId, signature)
	require.ErrorIs(t, err, common.ErrNoChallenge)
}

func TestBiometricLoginWrongKey(t *testing.T) {
	service, _, _ := newTestService(t, "auth_biometric_wrong")
	ctx := context.Background()

	voterId, err := service.Register(ctx, "John Voter", "9876543210", "addr-1")
	require.NoError(t, err)

	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	credentialId, err := service.EnrollBiometric(ctx, voterId, ethcrypto.FromECDSAPub(&key.PublicKey))
	require.NoError(t, err)

	nonce, err := service.BiometricChallenge(ctx, credentialId)
	require.NoError(t, err)

	attacker, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	signature, err := ethcrypto.Sign(ethcrypto.Keccak256(nonce), attacker)
	require.NoError(t, err)

	_, err = service.LoginBiometric(ctx, credentialId, signature)
	require.ErrorIs(t, err, common.ErrMismatch)
}

func TestBiometricLoginUnknownCredential(t *testing.T) {
	service, _, _ := newTestService(t, "auth_biometric_unknown")
	ctx := context.Background()

	_, err := service.BiometricChallenge(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotEnrolled)

	_, err = service.LoginBiometric(ctx, "missing", []byte("sig"))
	require.ErrorIs(t, err, common.ErrNotEnrolled)
}

func TestValidateAndLogout(t *testing.T) {
	service, sender, daoManager := newTestService(t, "auth_sessions")
	ctx := context.Background()

	_, err := service.Register(ctx, "John Voter", "9876543210", "addr-1")
	require.NoError(t, err)
	_, err = service.otpManager.RequestChallenge(ctx, "9876543210")
	require.NoError(t, err)
	session, err := service.Login(ctx, "9876543210", sender.code)
	require.NoError(t, err)

	resolved, err := service.Validate(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, session.VoterId, resolved.VoterId)

	_, err = service.Validate(ctx, "")
	require.ErrorIs(t, err, common.ErrUnauthenticated)
	_, err = service.Validate(ctx, "bogus")
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	// Expired sessions are evicted on first touch.
	session.ExpiresAt = 1
	require.NoError(t, daoManager.SessionDao.DB.Save(session).Error)
	_, err = service.Validate(ctx, session.Token)
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	require.NoError(t, service.Logout(ctx, session.Token))
}
