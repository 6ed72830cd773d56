package mappers

import (
	"time"

	"github.com/cutekitek/rankode-judge/internal/repository/models"
	"github.com/cutekitek/rankode-judge/internal/runner/judge0"
	"github.com/cutekitek/rankode-judge/internal/validator"
	"github.com/pkg/errors"
)

// ValidationResult turns the outcome of a reference solution check into a response.
func ValidationResult(req *models.ValidationRequest, err error) *models.ValidationResponse {
	resp := &models.ValidationResponse{
		Id:        req.Id,
		ProblemId: req.ProblemId,
		Status:    models.ValidationStatusAccepted,
		UpdatedAt: time.Now().UTC(),
	}
	if err == nil {
		return resp
	}

	resp.Message = err.Error()
	var failure *validator.VerdictFailure
	switch {
	case errors.As(err, &failure):
		resp.Status = models.ValidationStatusRejected
		resp.Language = failure.Language
		resp.FailedCase = failure.CaseIndex
		resp.JudgeStatus = failure.Verdict.Status.Description
	case errors.Is(err, judge0.ErrUnsupportedLanguage):
		resp.Status = models.ValidationStatusUnsupportedLanguage
	case errors.Is(err, validator.ErrInvalidRequest):
		resp.Status = models.ValidationStatusInvalid
	case errors.Is(err, judge0.ErrPollTimeout):
		resp.Status = models.ValidationStatusIndeterminate
	default:
		resp.Status = models.ValidationStatusInternalError
	}
	return resp
}

func ValidationState(req *models.ValidationRequest, status models.ValidationStatus) *models.ValidationResponse {
	return &models.ValidationResponse{
		Id:        req.Id,
		ProblemId: req.ProblemId,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	}
}
