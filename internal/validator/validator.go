// Package validator checks problem reference solutions against their test cases.
package validator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cutekitek/rankode-judge/internal/repository/dto"
	"github.com/cutekitek/rankode-judge/internal/runner"
	"github.com/cutekitek/rankode-judge/internal/runner/judge0"
	"github.com/pkg/errors"
)

var ErrInvalidRequest = errors.New("invalid validation request")

// VerdictFailure is returned when a reference solution does not pass a test case.
type VerdictFailure struct {
	Language string
	// 1-based
	CaseIndex int
	Verdict   dto.VerdictResult
}

func (e *VerdictFailure) Error() string {
	return fmt.Sprintf("testcase %d failed for language %s: %s", e.CaseIndex, e.Language, e.Verdict.Status.Description)
}

type Validator struct {
	runner runner.Runner
}

func NewValidator(r runner.Runner) *Validator {
	return &Validator{runner: r}
}

// Validate judges every reference solution, one language at a time, and fails on the first
// test case that is not accepted. Unsupported languages are rejected before anything is judged.
func (v *Validator) Validate(ctx context.Context, solutions map[string]string, testCases []dto.TestCase) error {
	if len(solutions) == 0 {
		return errors.Wrap(ErrInvalidRequest, "no reference solutions")
	}
	if len(testCases) == 0 {
		return errors.Wrap(ErrInvalidRequest, "no test cases")
	}

	languages := make([]string, 0, len(solutions))
	for lang := range solutions {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	for _, lang := range languages {
		if !v.runner.Supports(lang) {
			return errors.Wrapf(judge0.ErrUnsupportedLanguage, "language %s", lang)
		}
	}

	for _, lang := range languages {
		result, err := v.Judge(ctx, lang, solutions[lang], testCases)
		if err != nil {
			return errors.Wrapf(err, "failed to judge %s solution", lang)
		}
		for i, c := range result.Cases {
			if !c.Verdict.Status.IsAccepted() {
				slog.Info("reference solution rejected", "language", lang, "case", i+1, "status", c.Verdict.Status.Description)
				return &VerdictFailure{Language: lang, CaseIndex: i + 1, Verdict: c.Verdict}
			}
		}
		slog.Debug("reference solution accepted", "language", lang, "cases", len(result.Cases))
	}
	return nil
}

// Judge runs a single solution against all test cases and returns every verdict.
func (v *Validator) Judge(ctx context.Context, language, code string, testCases []dto.TestCase) (*dto.RunResult, error) {
	if !v.runner.Supports(language) {
		return nil, errors.Wrapf(judge0.ErrUnsupportedLanguage, "language %s", language)
	}
	return v.runner.Run(ctx, &dto.RunRequest{
		Language:  language,
		Code:      code,
		TestCases: testCases,
	})
}
