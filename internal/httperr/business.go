package httperr

import (
	"errors"
	"time"
)

// Kind groups business errors by how callers are expected to react.
type Kind string

const (
	KindContention  Kind = "contention"
	KindEligibility Kind = "eligibility"
	KindIntegrity   Kind = "integrity"
	KindExternal    Kind = "external"
	KindValidation  Kind = "validation"
)

type BusinessError struct {
	Code    string
	Kind    Kind
	Message string
	Details map[string]any
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code, Kind: KindIntegrity}
}

func ErrKind(kind Kind, code string, details map[string]any) error {
	return BusinessError{Code: code, Kind: kind, Details: details}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// ======================================================
// Codes
// ======================================================

const (
	CodeAlreadyClaimed           = "already_claimed"
	CodeNotEligible              = "not_eligible"
	CodeOutsideClaimingWindow    = "outside_claiming_window"
	CodeOutsideWorkWindow        = "outside_work_window"
	CodeOnboardingIncomplete     = "onboarding_incomplete"
	CodeEmployeeInactive         = "employee_inactive"
	CodeNotFound                 = "not_found"
	CodeInvalidTransition        = "invalid_transition"
	CodeDeadlinePassed           = "deadline_passed"
	CodeNotAssigned              = "not_assigned"
	CodeExtensionAlreadyUsed     = "extension_already_used"
	CodeNotCompleted             = "not_completed"
	CodeAlreadyApproved          = "already_approved"
	CodeNotApproved              = "not_approved"
	CodeNotFailed                = "not_failed"
	CodeRetryInProgress          = "retry_in_progress"
	CodeCannotRetryWithoutIntent = "cannot_retry_without_original_intent"
	CodeProcessorError           = "processor_error"
	CodeNoCompletedPayment       = "no_completed_payment"
	CodeForbidden                = "forbidden"
	CodeInvalidInput             = "invalid_input"
)

func AlreadyClaimed() error {
	return BusinessError{Code: CodeAlreadyClaimed, Kind: KindContention}
}

func NotEligible() error {
	return BusinessError{Code: CodeNotEligible, Kind: KindEligibility}
}

func OutsideClaimingWindow(nextAvailable time.Time) error {
	return BusinessError{
		Code:    CodeOutsideClaimingWindow,
		Kind:    KindEligibility,
		Details: map[string]any{"next_available_at": nextAvailable},
	}
}

func OutsideWorkWindow(start, end time.Time) error {
	return BusinessError{
		Code:    CodeOutsideWorkWindow,
		Kind:    KindEligibility,
		Details: map[string]any{"work_start": start, "work_end": end},
	}
}

func OnboardingIncomplete() error {
	return BusinessError{
		Code:    CodeOnboardingIncomplete,
		Kind:    KindEligibility,
		Message: "no active service areas",
	}
}

func EmployeeInactive() error {
	return BusinessError{Code: CodeEmployeeInactive, Kind: KindEligibility}
}

func NotFound(entity string) error {
	return BusinessError{
		Code:    CodeNotFound,
		Kind:    KindIntegrity,
		Details: map[string]any{"entity": entity},
	}
}

func InvalidTransition(current, requested string) error {
	return BusinessError{
		Code:    CodeInvalidTransition,
		Kind:    KindIntegrity,
		Message: current + " -> " + requested,
		Details: map[string]any{"current": current, "requested": requested},
	}
}

func DeadlinePassed(deadline time.Time) error {
	return BusinessError{
		Code:    CodeDeadlinePassed,
		Kind:    KindEligibility,
		Details: map[string]any{"arrival_deadline": deadline},
	}
}

func NotAssigned() error {
	return BusinessError{Code: CodeNotAssigned, Kind: KindEligibility}
}

func ExtensionAlreadyUsed() error {
	return BusinessError{Code: CodeExtensionAlreadyUsed, Kind: KindEligibility}
}

func NotCompleted() error {
	return BusinessError{Code: CodeNotCompleted, Kind: KindIntegrity}
}

func AlreadyApproved() error {
	return BusinessError{Code: CodeAlreadyApproved, Kind: KindContention}
}

func NotApproved() error {
	return BusinessError{Code: CodeNotApproved, Kind: KindIntegrity}
}

func NotFailed() error {
	return BusinessError{Code: CodeNotFailed, Kind: KindIntegrity}
}

func RetryInProgress() error {
	return BusinessError{Code: CodeRetryInProgress, Kind: KindContention}
}

func CannotRetryWithoutOriginalIntent() error {
	return BusinessError{
		Code:    CodeCannotRetryWithoutIntent,
		Kind:    KindIntegrity,
		Message: "manual handling required",
	}
}

func ProcessorError(cause error) error {
	return BusinessError{
		Code:    CodeProcessorError,
		Kind:    KindExternal,
		Message: cause.Error(),
	}
}

func NoCompletedPayment() error {
	return BusinessError{Code: CodeNoCompletedPayment, Kind: KindIntegrity}
}

func Forbidden() error {
	return BusinessError{Code: CodeForbidden, Kind: KindEligibility}
}

func InvalidInput(field, message string) error {
	return BusinessError{
		Code:    CodeInvalidInput,
		Kind:    KindValidation,
		Message: message,
		Details: map[string]any{"field": field},
	}
}
