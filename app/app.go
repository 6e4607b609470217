package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/electra-shield/voting-backend/api"
	"github.com/electra-shield/voting-backend/auth"
	"github.com/electra-shield/voting-backend/config"
	"github.com/electra-shield/voting-backend/db/dao"
	"github.com/electra-shield/voting-backend/db/model"
	"github.com/electra-shield/voting-backend/encryption"
	"github.com/electra-shield/voting-backend/ledger"
	"github.com/electra-shield/voting-backend/logging"
	"github.com/electra-shield/voting-backend/metrics"
	"github.com/electra-shield/voting-backend/otp"
	"github.com/electra-shield/voting-backend/tally"
	"github.com/electra-shield/voting-backend/wiper"
)

type App struct {
	apiServer     *api.Server
	otpManager    *otp.Manager
	authService   *auth.Service
	voteLedger    *ledger.Ledger
	tallyEngine   *tally.Engine
	metricService *metrics.MetricService
	dbWiper       *wiper.DBWiper
}

func NewApp(cfg *config.Config) *App {
	db := openDB(&cfg.DBConfig)

	model.InitVoterTable(db)
	model.InitCandidateTable(db)
	model.InitOtpChallengeTable(db)
	model.InitSessionTable(db)
	model.InitBallotTable(db)
	model.InitBiometricCredentialTable(db)

	voterDao := dao.NewVoterDao(db)
	otpDao := dao.NewOtpDao(db)
	sessionDao := dao.NewSessionDao(db)
	candidateDao := dao.NewCandidateDao(db)
	ballotDao := dao.NewBallotDao(db)
	credentialDao := dao.NewCredentialDao(db)
	daoManager := dao.NewDaoManager(voterDao, otpDao, sessionDao, candidateDao, ballotDao, credentialDao)

	seedAdmin(daoManager, &cfg.AdminConfig)

	metricService := metrics.NewMetricService(cfg)

	scheme, err := encryption.NewScheme(&cfg.ElectionConfig)
	if err != nil {
		panic(fmt.Sprintf("init ballot scheme error, err=%+v", err.Error()))
	}

	var sender otp.Sender
	if cfg.OtpConfig.UseDevSender {
		sender = otp.NewDevSender()
	} else {
		sender = otp.NewGatewaySender(cfg.OtpConfig.SmsGatewayUrl, cfg.OtpConfig.SmsApiKey)
	}

	otpManager := otp.NewManager(&cfg.OtpConfig, daoManager, sender, metricService)
	authService := auth.NewService(&cfg.AuthConfig, daoManager, otpManager, metricService)

	castTimeout := time.Duration(cfg.ServerConfig.GetCastTimeoutSeconds()) * time.Second
	voteLedger := ledger.NewLedger(daoManager, metricService, castTimeout)

	tallyEngine := tally.NewEngine(daoManager, scheme, metricService, &cfg.AlertConfig)

	apiServer := api.NewServer(cfg, authService, otpManager, voteLedger, tallyEngine, scheme.Public(), daoManager)

	dbWiper := wiper.NewDBWiper(daoManager)

	return &App{
		apiServer:     apiServer,
		otpManager:    otpManager,
		authService:   authService,
		voteLedger:    voteLedger,
		tallyEngine:   tallyEngine,
		metricService: metricService,
		dbWiper:       dbWiper,
	}
}

func (a *App) Start() {
	go a.dbWiper.DBWipeLoop()
	go a.metricService.Start()
	a.apiServer.Serve()
}

func openDB(cfg *config.DBConfig) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case config.DBDialectSqlite3:
		dialector = sqlite.Open(cfg.DBPath)
	default:
		password := viper.GetString(config.FlagConfigDbPass)
		if password == "" {
			password = cfg.Password
		}
		dbPath := fmt.Sprintf("%s:%s@%s", cfg.Username, password, cfg.DBPath)
		dialector = mysql.Open(dbPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		panic(fmt.Sprintf("open db error, err=%+v", err.Error()))
	}

	dbConfig, err := db.DB()
	if err != nil {
		panic(err)
	}
	dbConfig.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConfig.SetMaxOpenConns(cfg.MaxOpenConns)

	if cfg.DebugMode {
		db = db.Debug()
	}

	return db
}

// seedAdmin makes sure the configured admin account exists. Re-seeding on a
// populated database is a no-op.
func seedAdmin(daoManager *dao.DaoManager, cfg *config.AdminConfig) {
	registered, err := daoManager.IsPhoneRegistered(cfg.Phone)
	if err != nil {
		panic(fmt.Sprintf("check admin account error, err=%+v", err.Error()))
	}
	if registered {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}

	admin := &model.Voter{
		Id:           uuid.NewString(),
		Name:         cfg.Name,
		Phone:        cfg.Phone,
		PasswordHash: string(hash),
		IsAdmin:      true,
		RegisteredAt: time.Now().Unix(),
	}
	if err := daoManager.SaveVoter(admin); err != nil {
		panic(fmt.Sprintf("seed admin account error, err=%+v", err.Error()))
	}
	logging.Logger.Infof("seeded admin account for phone %s", cfg.Phone)
}
