package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/config"
	"github.com/electra-shield/voting-backend/db/dao"
	"github.com/electra-shield/voting-backend/db/model"
	"github.com/electra-shield/voting-backend/logging"
	"github.com/electra-shield/voting-backend/metrics"
	"github.com/electra-shield/voting-backend/util"
)

// ChallengeReceipt is what the caller learns about an issued challenge. The
// code itself travels only through the sender.
type ChallengeReceipt struct {
	Sent      bool
	ExpiresIn time.Duration
}

// Manager issues and verifies one-time codes. All operations for one phone
// number are serialized so a resend cannot race a verify.
type Manager struct {
	cfg           *config.OtpConfig
	daoManager    *dao.DaoManager
	sender        Sender
	metricService *metrics.MetricService
	phoneLocks    *util.KeyedMutex
}

func NewManager(cfg *config.OtpConfig, daoManager *dao.DaoManager, sender Sender, metricService *metrics.MetricService) *Manager {
	return &Manager{
		cfg:           cfg,
		daoManager:    daoManager,
		sender:        sender,
		metricService: metricService,
		phoneLocks:    util.NewKeyedMutex(),
	}
}

// RequestChallenge issues a fresh code for the phone. A still-cooling prior
// challenge rejects the request; otherwise the prior challenge is replaced,
// codes never accumulate.
func (m *Manager) RequestChallenge(ctx context.Context, phone string) (*ChallengeReceipt, error) {
	unlock := m.phoneLocks.Lock(phone)
	defer unlock()

	now := time.Now()

	existing, err := m.daoManager.GetChallengeByPhone(phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		cooldown := int64(m.cfg.GetResendCooldownSeconds())
		if now.Unix()-existing.IssuedAt < cooldown {
			return nil, common.ErrResendCooldown
		}
	}

	code, err := util.RandomNumericCode(m.cfg.GetCodeLength())
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(m.cfg.GetTTLSeconds()) * time.Second
	challenge := &model.OtpChallenge{
		Phone:     phone,
		Code:      code,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	if err := m.daoManager.ReplaceChallenge(challenge); err != nil {
		return nil, err
	}

	if err := m.sender.Send(ctx, phone, code); err != nil {
		logging.Logger.Errorf("failed to deliver otp for phone %s, err=%+v", phone, err.Error())
		return nil, common.ErrTimeout
	}

	m.metricService.IncOtpIssued()
	return &ChallengeReceipt{
		Sent:      true,
		ExpiresIn: ttl,
	}, nil
}

// Verify checks the code for the phone. The comparison is constant time and
// a successful challenge is deleted, so a code can be spent only once.
func (m *Manager) Verify(ctx context.Context, phone, code string) error {
	unlock := m.phoneLocks.Lock(phone)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return common.ErrTimeout
	}

	challenge, err := m.daoManager.GetChallengeByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			m.metricService.IncOtpFailed()
			return common.ErrNoChallenge
		}
		return err
	}

	if time.Now().Unix() > challenge.ExpiresAt {
		if err := m.daoManager.DeleteChallengeByPhone(phone); err != nil {
			logging.Logger.Errorf("failed to delete expired challenge for phone %s, err=%+v", phone, err.Error())
		}
		m.metricService.IncOtpFailed()
		return common.ErrExpired
	}

	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) != 1 {
		if err := m.daoManager.IncrementChallengeAttempt(challenge.Id); err != nil {
			logging.Logger.Errorf("failed to record otp attempt for phone %s, err=%+v", phone, err.Error())
		}
		logging.Logger.Infof("otp mismatch for phone %s, attempt %d", phone, challenge.AttemptCount+1)
		m.metricService.IncOtpFailed()
		return common.ErrMismatch
	}

	if err := m.daoManager.DeleteChallengeByPhone(phone); err != nil {
		return err
	}

	m.metricService.IncOtpVerified()
	return nil
}
