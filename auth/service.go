package auth

import (
	"bytes"
	"context"
	"errors"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/config"
	"github.com/electra-shield/voting-backend/db/dao"
	"github.com/electra-shield/voting-backend/db/model"
	"github.com/electra-shield/voting-backend/logging"
	"github.com/electra-shield/voting-backend/metrics"
	"github.com/electra-shield/voting-backend/otp"
	"github.com/electra-shield/voting-backend/util"
)

const sessionTokenBytes = 32

// Service covers registration, the three login paths and session lifecycle.
// Logins never mutate voter state; the only side effect is a session row.
type Service struct {
	cfg           *config.AuthConfig
	daoManager    *dao.DaoManager
	otpManager    *otp.Manager
	metricService *metrics.MetricService
}

func NewService(cfg *config.AuthConfig, daoManager *dao.DaoManager, otpManager *otp.Manager, metricService *metrics.MetricService) *Service {
	return &Service{
		cfg:           cfg,
		daoManager:    daoManager,
		otpManager:    otpManager,
		metricService: metricService,
	}
}

// Register creates a voter record. Phone uniqueness is enforced by the store;
// a duplicate registration is a terminal conflict, not a retryable failure.
func (s *Service) Register(ctx context.Context, name, phone, addressId string) (string, error) {
	if name == "" || !util.IsNumeric(phone) {
		return "", common.ErrInvalidInput
	}

	voter := &model.Voter{
		Id:           uuid.NewString(),
		Name:         name,
		Phone:        phone,
		AddressId:    addressId,
		RegisteredAt: time.Now().Unix(),
	}
	if err := s.daoManager.SaveVoter(voter); err != nil {
		return "", err
	}

	if count, err := s.daoManager.CountVoters(); err == nil {
		s.metricService.SetRegisteredVoters(count)
	}
	logging.Logger.Infof("registered voter %s for phone %s", voter.Id, phone)
	return voter.Id, nil
}

// Login turns a verified OTP into a session. The code check is delegated to
// the OTP manager; an unknown phone fails closed after the code is spent.
func (s *Service) Login(ctx context.Context, phone, code string) (*model.Session, error) {
	if err := s.otpManager.Verify(ctx, phone, code); err != nil {
		s.metricService.IncLoginFailed()
		return nil, err
	}

	voter, err := s.daoManager.GetVoterByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metricService.IncLoginFailed()
			return nil, common.ErrNotRegistered
		}
		return nil, err
	}

	return s.issueSession(voter)
}

// LoginPassword authenticates with phone and password. Only accounts that
// carry a password hash (the seeded admin, primarily) can use this path.
func (s *Service) LoginPassword(ctx context.Context, phone, password string) (*model.Session, error) {
	voter, err := s.daoManager.GetVoterByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metricService.IncLoginFailed()
			return nil, common.ErrBadCredentials
		}
		return nil, err
	}
	if voter.PasswordHash == "" {
		s.metricService.IncLoginFailed()
		return nil, common.ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(voter.PasswordHash), []byte(password)); err != nil {
		s.metricService.IncLoginFailed()
		return nil, common.ErrBadCredentials
	}

	return s.issueSession(voter)
}

// EnrollBiometric stores a platform public key for the voter and returns the
// credential id the platform will present on later logins.
func (s *Service) EnrollBiometric(ctx context.Context, voterId string, publicKey []byte) (string, error) {
	if len(publicKey) == 0 {
		return "", common.ErrInvalidInput
	}
	if _, err := s.daoManager.GetVoterById(voterId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", common.ErrUnauthenticated
		}
		return "", err
	}

	credential := &model.BiometricCredential{
		CredentialId: uuid.NewString(),
		VoterId:      voterId,
		PublicKey:    publicKey,
		EnrolledAt:   time.Now().Unix(),
	}
	if err := s.daoManager.SaveCredential(credential); err != nil {
		return "", err
	}
	logging.Logger.Infof("enrolled biometric credential %s for voter %s", credential.CredentialId, voterId)
	return credential.CredentialId, nil
}

// BiometricChallenge issues a fresh nonce for the credential. The following
// login must sign exactly this nonce.
func (s *Service) BiometricChallenge(ctx context.Context, credentialId string) ([]byte, error) {
	if _, err := s.daoManager.GetCredentialById(credentialId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotEnrolled
		}
		return nil, err
	}

	nonce, err := util.RandomBytes(32)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(time.Duration(s.cfg.GetBiometricChallengeTTLSeconds()) * time.Second).Unix()
	if err := s.daoManager.UpdateCredentialChallenge(credentialId, nonce, expiresAt); err != nil {
		return nil, err
	}
	return nonce, nil
}

// LoginBiometric validates a signed challenge against the enrolled public
// key. There is no fallback identity: no credential, no session.
func (s *Service) LoginBiometric(ctx context.Context, credentialId string, signature []byte) (*model.Session, error) {
	credential, err := s.daoManager.GetCredentialById(credentialId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metricService.IncLoginFailed()
			return nil, common.ErrNotEnrolled
		}
		return nil, err
	}

	if len(credential.Challenge) == 0 {
		s.metricService.IncLoginFailed()
		return nil, common.ErrNoChallenge
	}
	if time.Now().Unix() > credential.ChallengeExpiresAt {
		s.metricService.IncLoginFailed()
		return nil, common.ErrExpired
	}

	// The nonce is single use regardless of the outcome below.
	if err := s.daoManager.UpdateCredentialChallenge(credentialId, nil, 0); err != nil {
		return nil, err
	}

	if !verifyAssertion(credential.PublicKey, credential.Challenge, signature) {
		s.metricService.IncLoginFailed()
		return nil, common.ErrMismatch
	}

	voter, err := s.daoManager.GetVoterById(credential.VoterId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metricService.IncLoginFailed()
			return nil, common.ErrNotRegistered
		}
		return nil, err
	}

	return s.issueSession(voter)
}

// verifyAssertion recovers the signing key from the secp256k1 signature over
// the challenge hash and compares it with the enrolled key.
func verifyAssertion(publicKey, challenge, signature []byte) bool {
	hash := ethcrypto.Keccak256(challenge)
	recovered, err := ethcrypto.SigToPub(hash, signature)
	if err != nil {
		return false
	}
	return bytes.Equal(ethcrypto.FromECDSAPub(recovered), publicKey)
}

// Validate resolves a token to its live session.
func (s *Service) Validate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}
	session, err := s.daoManager.GetSessionByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, err
	}
	if time.Now().Unix() > session.ExpiresAt {
		if err := s.daoManager.DeleteSessionByToken(token); err != nil {
			logging.Logger.Errorf("failed to delete expired session, err=%+v", err.Error())
		}
		return nil, common.ErrUnauthenticated
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.daoManager.DeleteSessionByToken(token)
}

func (s *Service) issueSession(voter *model.Voter) (*model.Session, error) {
	token, err := util.RandomToken(sessionTokenBytes)
	if err != nil {
		return nil, err
	}

	role := common.RoleVoter
	if voter.IsAdmin {
		role = common.RoleAdmin
	}

	now := time.Now()
	session := &model.Session{
		Token:     token,
		VoterId:   voter.Id,
		Role:      role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Duration(s.cfg.GetSessionTTLSeconds()) * time.Second).Unix(),
	}
	if err := s.daoManager.SaveSession(session); err != nil {
		return nil, err
	}

	s.metricService.IncSessionsIssued()
	logging.Logger.Infof("issued %s session for voter %s", role, voter.Id)
	return session, nil
}
