package mappers

import (
	"github.com/cutekitek/rankode-judge/internal/repository/dto"
	"github.com/cutekitek/rankode-judge/internal/repository/models"
	"github.com/cutekitek/rankode-judge/internal/runner/judge0"
	"github.com/cutekitek/rankode-judge/internal/validator"
	"github.com/pkg/errors"
)

func RunResultToAttemptResult(req *models.AttemptRequest, result *dto.RunResult) *models.AttemptResponse {
	resp := &models.AttemptResponse{
		Id:     req.Id,
		Status: models.AttemptStatusSuccessful,
		Tests:  make([]models.TestStatus, 0, len(result.Cases)),
	}
	for i, c := range result.Cases {
		caseId := int64(0)
		if i < len(req.TestCases) {
			caseId = req.TestCases[i].Id
		}
		v := c.Verdict
		status := models.TestStatus{
			CaseId:        caseId,
			Status:        testCaseStatus(v.Status.Id),
			JudgeStatus:   v.Status.Description,
			Output:        v.Stdout,
			Error:         firstNonEmpty(v.CompileOutput, v.Stderr, v.Message),
			ExecutionTime: c.ExecutionTime.Milliseconds(),
			MemoryUsage:   int64(v.Memory),
		}
		resp.Tests = append(resp.Tests, status)
		resp.ExecutionTime += status.ExecutionTime
		if status.MemoryUsage > resp.MemoryUsage {
			resp.MemoryUsage = status.MemoryUsage
		}
		if resp.Status == models.AttemptStatusSuccessful && !v.Status.IsAccepted() {
			resp.Status = attemptStatus(v.Status.Id)
			resp.Error = status.Error
		}
	}
	return resp
}

// ErrorToAttemptResult describes an attempt the judge could not finish.
func ErrorToAttemptResult(req *models.AttemptRequest, err error) *models.AttemptResponse {
	resp := &models.AttemptResponse{Id: req.Id, Error: err.Error()}
	switch {
	case errors.Is(err, judge0.ErrUnsupportedLanguage):
		resp.Status = models.AttemptStatusUnsupportedLanguage
	case errors.Is(err, judge0.ErrPollTimeout):
		resp.Status = models.AttemptStatusIndeterminate
	case errors.Is(err, validator.ErrInvalidRequest):
		resp.Status = models.AttemptStatusInvalid
	default:
		resp.Status = models.AttemptStatusInternalError
	}
	return resp
}

func testCaseStatus(id int) models.TestCaseStatus {
	switch {
	case id == judge0.StatusAccepted:
		return models.TestCaseStatusComplete
	case id == judge0.StatusWrongAnswer:
		return models.TestCaseStatusWrongAnswer
	case id == judge0.StatusTimeLimitExceeded:
		return models.TestCaseStatusTimeout
	case id == judge0.StatusCompilationError:
		return models.TestCaseStatusBuildFailed
	case judge0.IsRuntimeError(id), id == judge0.StatusExecFormatError:
		return models.TestCaseStatusRunningError
	default:
		return models.TestCaseStatusInternalError
	}
}

func attemptStatus(id int) models.AttemptStatus {
	switch testCaseStatus(id) {
	case models.TestCaseStatusWrongAnswer:
		return models.AttemptStatusWrongAnswer
	case models.TestCaseStatusTimeout:
		return models.AttemptStatusTimeout
	case models.TestCaseStatusBuildFailed:
		return models.AttemptStatusBuildFailed
	case models.TestCaseStatusRunningError:
		return models.AttemptStatusRunFailed
	default:
		return models.AttemptStatusInternalError
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
