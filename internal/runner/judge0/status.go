package judge0

const (
	StatusInQueue           = 1
	StatusProcessing        = 2
	StatusAccepted          = 3
	StatusWrongAnswer       = 4
	StatusTimeLimitExceeded = 5
	StatusCompilationError  = 6
	StatusRuntimeSIGSEGV    = 7
	StatusRuntimeSIGXFSZ    = 8
	StatusRuntimeSIGFPE     = 9
	StatusRuntimeSIGABRT    = 10
	StatusRuntimeNZEC       = 11
	StatusRuntimeOther      = 12
	StatusInternalError     = 13
	StatusExecFormatError   = 14
)

var statusDescriptions = map[int]string{
	StatusInQueue:           "In Queue",
	StatusProcessing:        "Processing",
	StatusAccepted:          "Accepted",
	StatusWrongAnswer:       "Wrong Answer",
	StatusTimeLimitExceeded: "Time Limit Exceeded",
	StatusCompilationError:  "Compilation Error",
	StatusRuntimeSIGSEGV:    "Runtime Error (SIGSEGV)",
	StatusRuntimeSIGXFSZ:    "Runtime Error (SIGXFSZ)",
	StatusRuntimeSIGFPE:     "Runtime Error (SIGFPE)",
	StatusRuntimeSIGABRT:    "Runtime Error (SIGABRT)",
	StatusRuntimeNZEC:       "Runtime Error (NZEC)",
	StatusRuntimeOther:      "Runtime Error (Other)",
	StatusInternalError:     "Internal Error",
	StatusExecFormatError:   "Exec Format Error",
}

func StatusDescription(id int) string {
	if d, ok := statusDescriptions[id]; ok {
		return d
	}
	return "Unknown"
}

func IsRuntimeError(id int) bool {
	return id >= StatusRuntimeSIGSEGV && id <= StatusRuntimeOther
}
