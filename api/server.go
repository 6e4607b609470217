package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/electra-shield/voting-backend/auth"
	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/config"
	"github.com/electra-shield/voting-backend/db/dao"
	"github.com/electra-shield/voting-backend/encryption"
	"github.com/electra-shield/voting-backend/ledger"
	"github.com/electra-shield/voting-backend/logging"
	"github.com/electra-shield/voting-backend/otp"
	"github.com/electra-shield/voting-backend/tally"
)

const sessionKey = "session"

// Server exposes the voting backend over HTTP. It holds the encrypt-only
// side of the election key; decryption stays inside the tally engine.
type Server struct {
	cfg         *config.Config
	authService *auth.Service
	otpManager  *otp.Manager
	voteLedger  *ledger.Ledger
	tallyEngine *tally.Engine
	encrypter   encryption.Encrypter
	daoManager  *dao.DaoManager
	engine      *gin.Engine
}

func NewServer(cfg *config.Config, authService *auth.Service, otpManager *otp.Manager,
	voteLedger *ledger.Ledger, tallyEngine *tally.Engine, encrypter encryption.Encrypter,
	daoManager *dao.DaoManager,
) *Server {
	s := &Server{
		cfg:         cfg,
		authService: authService,
		otpManager:  otpManager,
		voteLedger:  voteLedger,
		tallyEngine: tallyEngine,
		encrypter:   encrypter,
		daoManager:  daoManager,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.POST("/register", s.Register)
	engine.POST("/otp/request", s.RequestOtp)
	engine.POST("/otp/verify", s.VerifyOtp)
	engine.POST("/login/password", s.LoginPassword)
	engine.POST("/biometric/challenge", s.BiometricChallenge)
	engine.POST("/login/biometric", s.LoginBiometric)
	engine.GET("/candidates", s.ListCandidates)

	authed := engine.Group("/", s.sessionRequired)
	authed.POST("/vote", s.CastVote)
	authed.POST("/biometric/enroll", s.EnrollBiometric)
	authed.POST("/logout", s.Logout)

	admin := engine.Group("/", s.sessionRequired, s.adminRequired)
	admin.GET("/results", s.Results)
	admin.POST("/candidates", s.AddCandidate)

	s.engine = engine
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Serve() {
	err := s.engine.Run(fmt.Sprintf(":%d", s.cfg.ServerConfig.Port))
	if err != nil {
		panic(err)
	}
}

// sessionRequired resolves the bearer token into a session or rejects 401.
func (s *Server) sessionRequired(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	session, err := s.authService.Validate(c.Request.Context(), token)
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.Set(sessionKey, session)
	c.Next()
}

func (s *Server) adminRequired(c *gin.Context) {
	session := currentSession(c)
	if session == nil || session.Role != common.RoleAdmin {
		abortWithReason(c, common.ErrForbidden)
		return
	}
	c.Next()
}

// abortWithReason maps the error taxonomy onto HTTP statuses: validation 400,
// auth 401, forbidden 403, conflict 409, transient 503.
func abortWithReason(c *gin.Context, err error) {
	var reasonErr *common.ReasonError
	if !errors.As(err, &reasonErr) {
		logging.Logger.Errorf("internal error on %s, err=%+v", c.FullPath(), err.Error())
		c.AbortWithStatusJSON(500, gin.H{"reason": "INTERNAL"})
		return
	}

	status := 500
	switch reasonErr.Kind {
	case common.KindValidation:
		status = 400
	case common.KindAuth:
		status = 401
	case common.KindForbidden:
		status = 403
	case common.KindConflict:
		status = 409
	case common.KindTransient:
		status = 503
	}
	c.AbortWithStatusJSON(status, gin.H{"reason": reasonErr.Code})
}
