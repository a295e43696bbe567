// Package protoerr defines the canonical error set for the ARS core.
//
// Every failure mode carries a stable error code
// (ARS/CORE/<CLASS>/<KIND>) and a taxonomy class. Codes are the
// external contract: callers and audit tooling match on the code, not
// the message text.
package protoerr

import "fmt"

// Class is the error taxonomy bucket. It determines how a failure is
// reported and whether it is security-relevant.
type Class string

const (
	// ClassValidation: out-of-range or malformed parameters. Rejected
	// before any mutation.
	ClassValidation Class = "VALIDATION"
	// ClassAuthorization: wrong authority or signer.
	ClassAuthorization Class = "AUTHORIZATION"
	// ClassTemporal: timelocks not met, voting window closed or still
	// open, oracle update too soon.
	ClassTemporal Class = "TEMPORAL"
	// ClassArithmetic: overflow/underflow in stake or percentage math.
	ClassArithmetic Class = "ARITHMETIC"
	// ClassReplay: missing or mismatched signature proof, stale signed
	// timestamp, duplicate vote. Security-relevant.
	ClassReplay Class = "REPLAY"
	// ClassReentrancy: guarded re-entry attempt. Fatal to the
	// transition.
	ClassReentrancy Class = "REENTRANCY"
)

// Error is a coded protocol error.
type Error struct {
	Code    string
	Class   Class
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches errors by code, so wrapped and detailed variants still
// compare equal to their sentinel under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithDetail returns a copy of e with extra context appended to the
// message. The code and class are preserved.
func (e *Error) WithDetail(format string, args ...any) *Error {
	return &Error{
		Code:    e.Code,
		Class:   e.Class,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
	}
}

func def(class Class, kind, msg string) *Error {
	return &Error{
		Code:    "ARS/CORE/" + string(class) + "/" + kind,
		Class:   class,
		Message: msg,
	}
}

// Validation errors.
var (
	ErrInvalidEpochDuration       = def(ClassValidation, "INVALID_EPOCH_DURATION", "invalid epoch duration")
	ErrInvalidMintBurnCap         = def(ClassValidation, "INVALID_MINT_BURN_CAP", "invalid mint/burn cap")
	ErrInvalidVHRThreshold        = def(ClassValidation, "INVALID_VHR_THRESHOLD", "invalid VHR threshold")
	ErrInvalidILIValue            = def(ClassValidation, "INVALID_ILI_VALUE", "invalid ILI value")
	ErrInvalidYield               = def(ClassValidation, "INVALID_YIELD", "invalid yield value")
	ErrInvalidVolatility          = def(ClassValidation, "INVALID_VOLATILITY", "invalid volatility value")
	ErrInvalidTVL                 = def(ClassValidation, "INVALID_TVL", "invalid TVL value")
	ErrInvalidVotingPeriod        = def(ClassValidation, "INVALID_VOTING_PERIOD", "invalid voting period")
	ErrInvalidPolicyParams        = def(ClassValidation, "INVALID_POLICY_PARAMS", "invalid policy parameters")
	ErrInvalidStakeAmount         = def(ClassValidation, "INVALID_STAKE_AMOUNT", "invalid stake amount")
	ErrInsufficientStake          = def(ClassValidation, "INSUFFICIENT_STAKE", "insufficient stake")
	ErrInvalidAmount              = def(ClassValidation, "INVALID_AMOUNT", "invalid amount")
	ErrInsufficientVaultBalance   = def(ClassValidation, "INSUFFICIENT_VAULT_BALANCE", "insufficient vault balance")
	ErrInvalidReserveVault        = def(ClassValidation, "INVALID_RESERVE_VAULT", "invalid reserve vault")
	ErrInvalidRebalanceThreshold  = def(ClassValidation, "INVALID_REBALANCE_THRESHOLD", "invalid rebalance threshold")
	ErrProposalNotActive          = def(ClassValidation, "PROPOSAL_NOT_ACTIVE", "proposal not active")
	ErrProposalNotPassed          = def(ClassValidation, "PROPOSAL_NOT_PASSED", "proposal not passed")
	ErrProposalNotReadyForExecution = def(ClassValidation, "PROPOSAL_NOT_READY_FOR_EXECUTION", "proposal not ready for execution")
	ErrProposalAlreadyExists      = def(ClassValidation, "PROPOSAL_ALREADY_EXISTS", "proposal already exists")
	ErrProposalNotFound           = def(ClassValidation, "PROPOSAL_NOT_FOUND", "proposal not found")
	ErrNotInitialized             = def(ClassValidation, "NOT_INITIALIZED", "protocol not initialized")
	ErrAlreadyInitialized         = def(ClassValidation, "ALREADY_INITIALIZED", "protocol already initialized")
)

// Authorization errors.
var (
	ErrUnauthorized         = def(ClassAuthorization, "UNAUTHORIZED", "unauthorized")
	ErrCircuitBreakerActive = def(ClassAuthorization, "CIRCUIT_BREAKER_ACTIVE", "circuit breaker is active")
)

// Temporal / ordering errors.
var (
	ErrILIUpdateTooSoon             = def(ClassTemporal, "ILI_UPDATE_TOO_SOON", "ILI update too soon")
	ErrProposalStillActive          = def(ClassTemporal, "PROPOSAL_STILL_ACTIVE", "proposal still active")
	ErrExecutionDelayNotMet         = def(ClassTemporal, "EXECUTION_DELAY_NOT_MET", "execution delay not met")
	ErrCircuitBreakerTimelockNotMet = def(ClassTemporal, "CIRCUIT_BREAKER_TIMELOCK_NOT_MET", "circuit breaker timelock not met")
)

// Arithmetic errors.
var (
	ErrMathOverflow        = def(ClassArithmetic, "MATH_OVERFLOW", "math overflow")
	ErrMathUnderflow       = def(ClassArithmetic, "MATH_UNDERFLOW", "math underflow")
	ErrArithmeticOverflow  = def(ClassArithmetic, "ARITHMETIC_OVERFLOW", "arithmetic overflow")
	ErrArithmeticUnderflow = def(ClassArithmetic, "ARITHMETIC_UNDERFLOW", "arithmetic underflow")
	ErrCounterOverflow     = def(ClassArithmetic, "COUNTER_OVERFLOW", "proposal counter overflow")
)

// Replay / duplication errors.
var (
	ErrMissingSignatureVerification = def(ClassReplay, "MISSING_SIGNATURE_VERIFICATION", "missing signature verification instruction")
	ErrInvalidSignatureProgram      = def(ClassReplay, "INVALID_SIGNATURE_PROGRAM", "invalid signature program")
	ErrSignatureVerificationFailed  = def(ClassReplay, "SIGNATURE_VERIFICATION_FAILED", "signature verification failed")
	ErrInvalidAgentSignature        = def(ClassReplay, "INVALID_AGENT_SIGNATURE", "invalid agent signature")
	ErrAgentMismatch                = def(ClassReplay, "AGENT_MISMATCH", "agent public key mismatch")
	ErrSignatureExpired             = def(ClassReplay, "SIGNATURE_EXPIRED", "signature expired")
	ErrInvalidNonce                 = def(ClassReplay, "INVALID_NONCE", "invalid nonce")
	ErrAlreadyVoted                 = def(ClassReplay, "ALREADY_VOTED", "already voted")
)

// Reentrancy errors.
var (
	ErrReentrancyDetected = def(ClassReentrancy, "REENTRANCY_DETECTED", "reentrancy detected")
)
