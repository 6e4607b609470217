package common

// Kind groups rejection reasons into the retry taxonomy: validation and
// conflict rejections are terminal for the request, auth rejections need a
// fresh credential, transient failures may be retried with backoff.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindForbidden
	KindConflict
	KindTransient
)

// ReasonError is a rejection with a stable reason code. Every rejected
// operation surfaces one of these so audit review can see why.
type ReasonError struct {
	Code string
	Kind Kind
	msg  string
}

func (e *ReasonError) Error() string {
	return e.msg
}

var (
	ErrPhoneTaken       = &ReasonError{Code: "PHONE_TAKEN", Kind: KindConflict, msg: "phone number already registered"}
	ErrAlreadyVoted     = &ReasonError{Code: "ALREADY_VOTED", Kind: KindConflict, msg: "voter has already cast a ballot"}
	ErrResendCooldown   = &ReasonError{Code: "RESEND_COOLDOWN", Kind: KindConflict, msg: "challenge was issued too recently"}
	ErrNoChallenge      = &ReasonError{Code: "NO_CHALLENGE", Kind: KindAuth, msg: "no challenge issued for this phone"}
	ErrExpired          = &ReasonError{Code: "EXPIRED", Kind: KindAuth, msg: "challenge has expired"}
	ErrMismatch         = &ReasonError{Code: "MISMATCH", Kind: KindAuth, msg: "code does not match"}
	ErrNotRegistered    = &ReasonError{Code: "NOT_REGISTERED", Kind: KindAuth, msg: "phone number is not registered"}
	ErrBadCredentials   = &ReasonError{Code: "BAD_CREDENTIALS", Kind: KindAuth, msg: "invalid credentials"}
	ErrNotEnrolled      = &ReasonError{Code: "NOT_ENROLLED", Kind: KindAuth, msg: "no biometric credential enrolled"}
	ErrUnauthenticated  = &ReasonError{Code: "UNAUTHENTICATED", Kind: KindAuth, msg: "session is missing or expired"}
	ErrForbidden        = &ReasonError{Code: "FORBIDDEN", Kind: KindForbidden, msg: "admin role required"}
	ErrInvalidCandidate = &ReasonError{Code: "INVALID_CANDIDATE", Kind: KindValidation, msg: "candidate does not exist"}
	ErrInvalidInput     = &ReasonError{Code: "INVALID_INPUT", Kind: KindValidation, msg: "malformed input"}
	ErrTimeout          = &ReasonError{Code: "TIMEOUT", Kind: KindTransient, msg: "operation timed out"}
	ErrStorage          = &ReasonError{Code: "STORAGE_UNAVAILABLE", Kind: KindTransient, msg: "storage unavailable"}
	ErrTallyUnavailable = &ReasonError{Code: "TALLY_UNAVAILABLE", Kind: KindTransient, msg: "tally key unavailable"}
)
