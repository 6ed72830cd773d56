package models

import "time"

type ValidationStatus string

const (
	ValidationStatusQueued              ValidationStatus = "queued"
	ValidationStatusJudging             ValidationStatus = "judging"
	ValidationStatusAccepted            ValidationStatus = "accepted"
	ValidationStatusRejected            ValidationStatus = "rejected"
	ValidationStatusUnsupportedLanguage ValidationStatus = "unsupported_language"
	ValidationStatusIndeterminate       ValidationStatus = "indeterminate"
	ValidationStatusInvalid             ValidationStatus = "invalid"
	ValidationStatusInternalError       ValidationStatus = "internal_error"
)

// Terminal reports whether no further status change will happen for the request.
func (s ValidationStatus) Terminal() bool {
	return s != ValidationStatusQueued && s != ValidationStatusJudging
}

// ValidationRequest asks to check that every reference solution of a problem passes all of its tests.
type ValidationRequest struct {
	Id        string `json:"id"`
	ProblemId string `json:"problem_id"`
	// Language name -> source code
	ReferenceSolutions map[string]string `json:"reference_solutions" validate:"required,min=1,dive,keys,required,endkeys,required"`
	TestCases          []TestCase        `json:"test_cases" validate:"required,min=1"`
}

type ValidationResponse struct {
	Id        string           `json:"id"`
	ProblemId string           `json:"problem_id,omitempty"`
	Status    ValidationStatus `json:"status"`
	Language  string           `json:"language,omitempty"`
	// 1-based index of the failed test case
	FailedCase  int       `json:"failed_case,omitempty"`
	JudgeStatus string    `json:"judge_status,omitempty"`
	Message     string    `json:"message,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
