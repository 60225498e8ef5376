package usecase

// Domain error codes
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeSequenceMissing = "SEQUENCE_NOT_FOUND"
	CodeNoEligibleLeads = "NO_ELIGIBLE_LEADS"
	CodeLeadMissing     = "LEAD_NOT_FOUND"
	CodeTerminalState   = "ENROLLMENT_COMPLETED"
	CodeDatabase        = "DATABASE_ERROR"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
