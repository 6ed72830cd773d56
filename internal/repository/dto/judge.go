package dto

// Submission is a single (source, test case) pair in the judge wire format.
type Submission struct {
	SourceCode     string `json:"source_code"`
	LanguageId     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

// SubmissionToken is the opaque handle the judge returns for every submitted item.
type SubmissionToken string

type Status struct {
	Id          int    `json:"id"`
	Description string `json:"description"`
}

// Terminal statuses start at 3; lower ids are "In Queue" and "Processing".
func (s Status) IsTerminal() bool {
	return s.Id >= 3
}

func (s Status) IsAccepted() bool {
	return s.Id == 3
}

type VerdictResult struct {
	Token         SubmissionToken `json:"token"`
	Status        Status          `json:"status"`
	Stdout        string          `json:"stdout"`
	Stderr        string          `json:"stderr"`
	CompileOutput string          `json:"compile_output"`
	Message       string          `json:"message"`
	// Seconds as a decimal string, e.g. "0.012"
	Time string `json:"time"`
	// Kilobytes
	Memory int `json:"memory"`
}
