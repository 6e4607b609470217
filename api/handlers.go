package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/electra-shield/voting-backend/common"
	"github.com/electra-shield/voting-backend/db/model"
	"github.com/electra-shield/voting-backend/util"
)

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	AddressId string `json:"addressId"`
}

type RegisterResponse struct {
	UserId string `json:"userId"`
}

func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithReason(c, common.ErrInvalidInput)
		return
	}

	userId, err := s.authService.Register(c.Request.Context(), req.Name, req.Phone, req.AddressId)
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.JSON(http.StatusOK, RegisterResponse{UserId: userId})
}

type OtpRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type OtpResponse struct {
	Sent             bool `json:"sent"`
	ExpiresInSeconds int  `json:"expiresInSeconds"`
}

func (s *Server) RequestOtp(c *gin.Context) {
	var req OtpRequest
	if err := c.ShouldBindJSON(&req); err != nil || !util.IsNumeric(req.Phone) {
		abortWithReason(c, common.ErrInvalidInput)
		return
	}

	receipt, err := s.otpManager.RequestChallenge(c.Request.Context(), req.Phone)
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.JSON(http.StatusOK, OtpResponse{
		Sent:             receipt.Sent,
		ExpiresInSeconds: int(receipt.ExpiresIn / time.Second),
	})
}

type VerifyOtpRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type SessionResponse struct {
	SessionToken string `json:"sessionToken"`
}

func (s *Server) VerifyOtp(c *gin.Context) {
	var req VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithReason(c, common.ErrInvalidInput)
		return
	}

	session, err := s.authService.Login(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{SessionToken: session.Token})
}

type PasswordLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) LoginPassword(c *gin.Context) {
	var req PasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithReason(c, common.ErrInvalidInput)
		return
	}

	session, err := s.authService.LoginPassword(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{SessionToken: session.Token})
}

type BiometricChallengeRequest struct {
	CredentialId string `json:"credentialId" binding:"required"`
}

type BiometricChallengeResponse struct {
	Challenge []byte `json:"challenge"`
}

func (s *Server) BiometricChallenge(c *gin.Context) {
	var req BiometricChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithReason(c, common.ErrInvalidInput)
		return
	}

	challenge, err := s.authService.BiometricChallenge(c.Request.Context(), req.CredentialId)
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.JSON(http.StatusOK, BiometricChallengeResponse{Challenge: challenge})
}

type BiometricLoginRequest struct {
	CredentialId string `json:"credentialId" binding:"required"`
	Signature    []byte `json:"signature" binding:"required"`
}

func (s *Server) LoginBiometric(c *gin.Context) {
	var req BiometricLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithReason(c, common.ErrInvalidInput)
		return
	}

	session, err := s.authService.LoginBiometric(c.Request.Context(), req.CredentialId, req.Signature)
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{SessionToken: session.Token})
}

type EnrollBiometricRequest struct {
	PublicKey []byte `json:"publicKey" binding:"required"`
}

type EnrollBiometricResponse struct {
	CredentialId string `json:"credentialId"`
}

func (s *Server) EnrollBiometric(c *gin.Context) {
	var req EnrollBiometricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithReason(c, common.ErrInvalidInput)
		return
	}

	session := currentSession(c)
	credentialId, err := s.authService.EnrollBiometric(c.Request.Context(), session.VoterId, req.PublicKey)
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.JSON(http.StatusOK, EnrollBiometricResponse{CredentialId: credentialId})
}

type CastVoteRequest struct {
	CandidateId string `json:"candidateId" binding:"required"`
}

type CastVoteResponse struct {
	BallotId string `json:"ballotId"`
}

// CastVote validates the candidate, seals the choice under the election key
// and hands the ciphertext to the ledger. The plaintext choice never leaves
// this handler.
func (s *Server) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithReason(c, common.ErrInvalidInput)
		return
	}

	exists, err := s.daoManager.IsCandidateExists(req.CandidateId)
	if err != nil {
		abortWithReason(c, common.ErrStorage)
		return
	}
	if !exists {
		abortWithReason(c, common.ErrInvalidCandidate)
		return
	}

	ciphertext, err := s.encrypter.Encrypt(req.CandidateId)
	if err != nil {
		abortWithReason(c, err)
		return
	}

	session := currentSession(c)
	ballotId, err := s.voteLedger.CastVote(c.Request.Context(), session.VoterId, ciphertext)
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.JSON(http.StatusOK, CastVoteResponse{BallotId: ballotId})
}

type CandidateView struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Party    string `json:"party"`
	ImageRef string `json:"imageRef"`
}

func (s *Server) ListCandidates(c *gin.Context) {
	candidates, err := s.daoManager.GetAllCandidates()
	if err != nil {
		abortWithReason(c, common.ErrStorage)
		return
	}

	views := make([]CandidateView, 0, len(candidates))
	for _, candidate := range candidates {
		views = append(views, CandidateView{
			Id:       candidate.Id,
			Name:     candidate.Name,
			Party:    candidate.Party,
			ImageRef: candidate.ImageRef,
		})
	}
	c.JSON(http.StatusOK, views)
}

type AddCandidateRequest struct {
	Name     string `json:"name" binding:"required"`
	Party    string `json:"party"`
	ImageRef string `json:"imageRef"`
}

type AddCandidateResponse struct {
	CandidateId string `json:"candidateId"`
}

func (s *Server) AddCandidate(c *gin.Context) {
	var req AddCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithReason(c, common.ErrInvalidInput)
		return
	}

	candidate := &model.Candidate{
		Id:        uuid.NewString(),
		Name:      req.Name,
		Party:     req.Party,
		ImageRef:  req.ImageRef,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.daoManager.SaveCandidate(candidate); err != nil {
		abortWithReason(c, common.ErrStorage)
		return
	}
	c.JSON(http.StatusOK, AddCandidateResponse{CandidateId: candidate.Id})
}

type ResultsResponse struct {
	Results    map[string]int64 `json:"results"`
	ComputedAt int64            `json:"computedAt"`
	Spoiled    int64            `json:"spoiled"`
}

func (s *Server) Results(c *gin.Context) {
	snapshot, err := s.tallyEngine.Tally(c.Request.Context())
	if err != nil {
		abortWithReason(c, err)
		return
	}
	c.JSON(http.StatusOK, ResultsResponse{
		Results:    snapshot.Results,
		ComputedAt: snapshot.ComputedAt.Unix(),
		Spoiled:    snapshot.Spoiled,
	})
}

func (s *Server) Logout(c *gin.Context) {
	session := currentSession(c)
	if err := s.authService.Logout(c.Request.Context(), session.Token); err != nil {
		abortWithReason(c, common.ErrStorage)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loggedOut": true})
}

func currentSession(c *gin.Context) *model.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, ok := value.(*model.Session)
	if !ok {
		return nil
	}
	return session
}
