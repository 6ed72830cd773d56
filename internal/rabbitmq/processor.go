package rabbitmq

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/cutekitek/rankode-judge/internal/files"
	"github.com/cutekitek/rankode-judge/internal/mappers"
	"github.com/cutekitek/rankode-judge/internal/repository/dto"
	"github.com/cutekitek/rankode-judge/internal/repository/models"
	"github.com/cutekitek/rankode-judge/internal/store"
	solution "github.com/cutekitek/rankode-judge/internal/validator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Judge is implemented by *validator.Validator.
type Judge interface {
	Validate(ctx context.Context, solutions map[string]string, testCases []dto.TestCase) error
	Judge(ctx context.Context, language, code string, testCases []dto.TestCase) (*dto.RunResult, error)
}

// Processor turns queue messages into judge calls and responses.
type Processor struct {
	judge    Judge
	files    files.Getter
	statuses store.StatusStore
	validate *validator.Validate
}

func NewProcessor(judge Judge, storage files.Getter, statuses store.StatusStore) *Processor {
	return &Processor{
		judge:    judge,
		files:    storage,
		statuses: statuses,
		validate: validator.New(),
	}
}

func (p *Processor) DecodeAttempt(body []byte) (*models.AttemptRequest, error) {
	var req models.AttemptRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.Wrap(err, "invalid attempt message")
	}
	if req.Id == "" {
		req.Id = uuid.NewString()
	}
	return &req, nil
}

func (p *Processor) Attempt(ctx context.Context, req *models.AttemptRequest) *models.AttemptResponse {
	if err := p.validate.Struct(req); err != nil {
		return mappers.ErrorToAttemptResult(req, errors.Wrap(solution.ErrInvalidRequest, err.Error()))
	}

	testCases, err := files.LoadTestCases(ctx, p.files, req.TestCases)
	if err != nil {
		slog.Error("failed to load test cases", "attempt", req.Id, "error", err)
		return mappers.ErrorToAttemptResult(req, err)
	}
	result, err := p.judge.Judge(ctx, req.Language, req.Code, testCases)
	if err != nil {
		slog.Warn("attempt was not judged", "attempt", req.Id, "error", err)
		return mappers.ErrorToAttemptResult(req, err)
	}
	resp := mappers.RunResultToAttemptResult(req, result)
	slog.Debug("attempt judged", "attempt", req.Id, "status", resp.Status)
	return resp
}

// DecodeValidation parses a validation message and marks it as queued.
func (p *Processor) DecodeValidation(ctx context.Context, body []byte) (*models.ValidationRequest, error) {
	var req models.ValidationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errors.Wrap(err, "invalid validation message")
	}
	if req.Id == "" {
		req.Id = uuid.NewString()
	}
	p.setStatus(ctx, mappers.ValidationState(&req, models.ValidationStatusQueued))
	return &req, nil
}

func (p *Processor) Validate(ctx context.Context, req *models.ValidationRequest) *models.ValidationResponse {
	if err := p.validate.Struct(req); err != nil {
		resp := mappers.ValidationResult(req, errors.Wrap(solution.ErrInvalidRequest, err.Error()))
		p.setStatus(ctx, resp)
		return resp
	}
	p.setStatus(ctx, mappers.ValidationState(req, models.ValidationStatusJudging))

	testCases, err := files.LoadTestCases(ctx, p.files, req.TestCases)
	if err == nil {
		err = p.judge.Validate(ctx, req.ReferenceSolutions, testCases)
	}
	resp := mappers.ValidationResult(req, err)
	p.setStatus(ctx, resp)
	slog.Info("validation finished", "validation", req.Id, "problem", req.ProblemId, "status", resp.Status)
	return resp
}

func (p *Processor) setStatus(ctx context.Context, resp *models.ValidationResponse) {
	if p.statuses == nil {
		return
	}
	if err := p.statuses.SetStatus(ctx, resp); err != nil {
		slog.Warn("failed to store validation status", "validation", resp.Id, "status", resp.Status, "error", err)
	}
}
