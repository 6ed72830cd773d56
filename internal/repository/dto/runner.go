package dto

import (
	"time"
)

type TestCase struct {
	Input          string
	ExpectedOutput string
}

type RunRequest struct {
	Language  string
	Code      string
	TestCases []TestCase
}

type RunCaseResult struct {
	Verdict VerdictResult
	// Parsed from Verdict.Time
	ExecutionTime time.Duration
}

type RunResult struct {
	LanguageId int
	// Same order as RunRequest.TestCases
	Cases []RunCaseResult
}
