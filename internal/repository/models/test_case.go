package models

type TestCase struct {
	Id             int64  `json:"id"`
	Order          int32  `json:"order"`
	TaskId         int64  `json:"task_id"`
	InputData      string `json:"input"`
	ExpectedOutput string `json:"output"`
	// Object storage keys, used instead of InputData/ExpectedOutput when set
	InputFile  string `json:"input_file,omitempty"`
	OutputFile string `json:"output_file,omitempty"`
}
