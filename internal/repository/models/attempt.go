package models

type AttemptStatus int8

const (
	AttemptStatusCreated AttemptStatus = iota
	AttemptStatusTesting
	AttemptStatusSuccessful
	AttemptStatusWrongAnswer
	AttemptStatusBuildFailed
	AttemptStatusRunFailed
	AttemptStatusTimeout
	AttemptStatusInternalError
	AttemptStatusUnsupportedLanguage
	// Judge did not finish in time, the attempt may be resubmitted
	AttemptStatusIndeterminate
	// Message failed validation and was never judged
	AttemptStatusInvalid
)

type TestCaseStatus int8

const (
	TestCaseStatusComplete TestCaseStatus = iota
	TestCaseStatusWrongAnswer
	TestCaseStatusTimeout
	TestCaseStatusBuildFailed
	TestCaseStatusRunningError
	TestCaseStatusInternalError
)

type TestStatus struct {
	CaseId        int64          `json:"case_id"`
	Status        TestCaseStatus `json:"status"`
	JudgeStatus   string         `json:"judge_status"`
	Output        string         `json:"output"`
	Error         string         `json:"error,omitempty"`
	ExecutionTime int64          `json:"execution_time"`
	MemoryUsage   int64          `json:"memory_usage"`
}

type AttemptRequest struct {
	Id        string     `json:"id"`
	TaskId    int64      `json:"task_id"`
	Language  string     `json:"language" validate:"required"`
	Code      string     `json:"code" validate:"required"`
	TestCases []TestCase `json:"test_cases" validate:"required,min=1"`
}

type AttemptResponse struct {
	Id          string        `json:"id"`
	Status      AttemptStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
	MemoryUsage int64         `json:"memory_usage"`
	// Milliseconds, summed over all tests
	ExecutionTime int64        `json:"execution_time"`
	Tests         []TestStatus `json:"tests"`
}
