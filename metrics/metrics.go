package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/electra-shield/voting-backend/config"
)

const (
	// Identity
	MetricRegisteredVoters = "registered_voters"
	// OTP Manager
	MetricOtpIssued   = "otp_issued"
	MetricOtpVerified = "otp_verified"
	MetricOtpFailed   = "otp_failed"
	// Auth Service
	MetricSessionsIssued = "sessions_issued"
	MetricLoginFailed    = "login_failed"
	// Vote Ledger
	MetricVotesAccepted = "votes_accepted"
	MetricVotesRejected = "votes_rejected"
	MetricCastDuration  = "cast_duration"
	// Tally Engine
	MetricTallyRuns      = "tally_runs"
	MetricTallyDuration  = "tally_duration"
	MetricSpoiledBallots = "spoiled_ballots"
	MetricTalliedBallots = "tallied_ballots"
)

type MetricService struct {
	MetricsMap map[string]prometheus.Metric
	registry   *prometheus.Registry
	cfg        *config.Config
}

func NewMetricService(config *config.Config) *MetricService {
	ms := make(map[string]prometheus.Metric, 0)
	registry := prometheus.NewRegistry()

	// Identity
	registeredVotersMetric := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricRegisteredVoters,
		Help: "Registered voters in database",
	})
	ms[MetricRegisteredVoters] = registeredVotersMetric
	registry.MustRegister(registeredVotersMetric)

	// OTP Manager
	otpIssuedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricOtpIssued,
		Help: "Issued OTP challenges",
	})
	ms[MetricOtpIssued] = otpIssuedMetric
	registry.MustRegister(otpIssuedMetric)

	otpVerifiedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricOtpVerified,
		Help: "Successfully verified OTP challenges",
	})
	ms[MetricOtpVerified] = otpVerifiedMetric
	registry.MustRegister(otpVerifiedMetric)

	otpFailedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricOtpFailed,
		Help: "Failed OTP verification attempts",
	})
	ms[MetricOtpFailed] = otpFailedMetric
	registry.MustRegister(otpFailedMetric)

	// Auth Service
	sessionsIssuedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricSessionsIssued,
		Help: "Issued sessions",
	})
	ms[MetricSessionsIssued] = sessionsIssuedMetric
	registry.MustRegister(sessionsIssuedMetric)

	loginFailedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricLoginFailed,
		Help: "Failed login attempts",
	})
	ms[MetricLoginFailed] = loginFailedMetric
	registry.MustRegister(loginFailedMetric)

	// Vote Ledger
	votesAcceptedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricVotesAccepted,
		Help: "Accepted ballots in ledger",
	})
	ms[MetricVotesAccepted] = votesAcceptedMetric
	registry.MustRegister(votesAcceptedMetric)

	votesRejectedMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricVotesRejected,
		Help: "Rejected vote cast attempts",
	})
	ms[MetricVotesRejected] = votesRejectedMetric
	registry.MustRegister(votesRejectedMetric)

	castDurationMetric := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: MetricCastDuration,
		Help: "Duration of one vote cast",
	})
	ms[MetricCastDuration] = castDurationMetric
	registry.MustRegister(castDurationMetric)

	// Tally Engine
	tallyRunsMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricTallyRuns,
		Help: "Completed tally runs",
	})
	ms[MetricTallyRuns] = tallyRunsMetric
	registry.MustRegister(tallyRunsMetric)

	tallyDurationMetric := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: MetricTallyDuration,
		Help: "Duration of one tally run",
	})
	ms[MetricTallyDuration] = tallyDurationMetric
	registry.MustRegister(tallyDurationMetric)

	spoiledBallotsMetric := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricSpoiledBallots,
		Help: "Ballots that failed to decrypt during tally",
	})
	ms[MetricSpoiledBallots] = spoiledBallotsMetric
	registry.MustRegister(spoiledBallotsMetric)

	talliedBallotsMetric := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricTalliedBallots,
		Help: "Ballots counted by the last tally run",
	})
	ms[MetricTalliedBallots] = talliedBallotsMetric
	registry.MustRegister(talliedBallotsMetric)

	return &MetricService{
		MetricsMap: ms,
		registry:   registry,
		cfg:        config,
	}
}

func (m *MetricService) Start() {
	http.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	err := http.ListenAndServe(fmt.Sprintf(":%d", m.cfg.MetricsConfig.Port), nil)
	if err != nil {
		panic(err)
	}
}

// Identity
func (m *MetricService) SetRegisteredVoters(count int64) {
	m.MetricsMap[MetricRegisteredVoters].(prometheus.Gauge).Set(float64(count))
}

// OTP Manager
func (m *MetricService) IncOtpIssued() {
	m.MetricsMap[MetricOtpIssued].(prometheus.Counter).Inc()
}

func (m *MetricService) IncOtpVerified() {
	m.MetricsMap[MetricOtpVerified].(prometheus.Counter).Inc()
}

func (m *MetricService) IncOtpFailed() {
	m.MetricsMap[MetricOtpFailed].(prometheus.Counter).Inc()
}

// Auth Service
func (m *MetricService) IncSessionsIssued() {
	m.MetricsMap[MetricSessionsIssued].(prometheus.Counter).Inc()
}

func (m *MetricService) IncLoginFailed() {
	m.MetricsMap[MetricLoginFailed].(prometheus.Counter).Inc()
}

// Vote Ledger
func (m *MetricService) IncVotesAccepted() {
	m.MetricsMap[MetricVotesAccepted].(prometheus.Counter).Inc()
}

func (m *MetricService) IncVotesRejected() {
	m.MetricsMap[MetricVotesRejected].(prometheus.Counter).Inc()
}

func (m *MetricService) SetCastDuration(duration time.Duration) {
	m.MetricsMap[MetricCastDuration].(prometheus.Histogram).Observe(duration.Seconds())
}

// Tally Engine
func (m *MetricService) IncTallyRuns() {
	m.MetricsMap[MetricTallyRuns].(prometheus.Counter).Inc()
}

func (m *MetricService) SetTallyDuration(duration time.Duration) {
	m.MetricsMap[MetricTallyDuration].(prometheus.Histogram).Observe(duration.Seconds())
}

func (m *MetricService) IncSpoiledBallots() {
	m.MetricsMap[MetricSpoiledBallots].(prometheus.Counter).Inc()
}

func (m *MetricService) SetTalliedBallots(count int64) {
	m.MetricsMap[MetricTalliedBallots].(prometheus.Gauge).Set(float64(count))
}
