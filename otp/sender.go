package otp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avast/retry-go/v4"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/logging"
)

// Sender delivers a one-time code to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// DevSender logs the code instead of sending it. The code never appears in
// any API response, only in the local log.
type DevSender struct{}

func NewDevSender() *DevSender {
	return &DevSender{}
}

func (s *DevSender) Send(_ context.Context, phone, code string) error {
	logging.Logger.Infof("[dev sender] otp for phone %s: %s", phone, code)
	return nil
}

// GatewaySender posts the code to an SMS gateway, retrying transient
// failures with backoff.
type GatewaySender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewGatewaySender(endpoint, apiKey string) *GatewaySender {
	return &GatewaySender{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: SendTimeout},
	}
}

func (s *GatewaySender) Send(ctx context.Context, phone, code string) error {
	formData := url.Values{
		"api_key": {s.apiKey},
		"to":      {phone},
		"message": {fmt.Sprintf("Your ElectraShield verification code is %s", code)},
	}

	return retry.Do(func() error {
		resp, err := s.client.PostForm(s.endpoint, formData)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return retry.Unrecoverable(fmt.Errorf("sms gateway rejected request, status=%d", resp.StatusCode))
		}
		return nil
	}, common.RetryAttempts, common.RetryDelay, common.RetryErr, retry.Context(ctx))
}
