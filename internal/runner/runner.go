package runner

import (
	"context"

	"github.com/cutekitek/rankode-judge/internal/repository/dto"
)

type Runner interface {
	// Synchronously judges every test case of the request as one batch and waits for all verdicts.
	Run(ctx context.Context, req *dto.RunRequest) (*dto.RunResult, error)
	// Supports reports whether the language can be judged. No network calls are made.
	Supports(language string) bool
}
