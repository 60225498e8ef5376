package usecase

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEnrollLeadsInput roda ANTES de qualquer escrita; erro aqui nunca
// deixa estado parcial no banco.
func ValidateEnrollLeadsInput(input EnrollLeadsInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.SequenceID) == "" {
		errors = append(errors, ValidationError{"sequence_id", "is required"})
	}

	if len(input.LeadIDs) == 0 {
		errors = append(errors, ValidationError{"lead_ids", "must not be empty"})
	}
	for i, id := range input.LeadIDs {
		if strings.TrimSpace(id) == "" {
			errors = append(errors, ValidationError{fmt.Sprintf("lead_ids[%d]", i), "must not be blank"})
		}
	}

	return errors
}

func validationDomainError(errs []ValidationError) *DomainError {
	msg := "validation failed: "
	for _, e := range errs {
		msg += e.Field + " (" + e.Message + "), "
	}
	return &DomainError{Code: CodeValidation, Message: msg}
}
