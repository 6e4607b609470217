package dao

type DaoManager struct {
	*VoterDao
	*OtpDao
	*SessionDao
	*CandidateDao
	*BallotDao
	*CredentialDao
}

func NewDaoManager(voterDao *VoterDao, otpDao *OtpDao, sessionDao *SessionDao,
	candidateDao *CandidateDao, ballotDao *BallotDao, credentialDao *CredentialDao,
) *DaoManager {
	return &DaoManager{
		VoterDao:      voterDao,
		OtpDao:        otpDao,
		SessionDao:    sessionDao,
		CandidateDao:  candidateDao,
		BallotDao:     ballotDao,
		CredentialDao: credentialDao,
	}
}
