// Package judge0test provides an in-memory Judge0 batch API for tests.
package judge0test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/cutekitek/rankode-judge/internal/repository/dto"
)

type Options struct {
	// Final status of a submission. Accepted when nil.
	Verdict func(index int, sub dto.Submission) dto.Status
	// Number of poll requests answered with "Processing" before final statuses are reported.
	// Negative keeps every submission processing forever.
	PendingPolls int
	// Report poll results in reverse order.
	Reverse bool
	// Non-zero makes the corresponding endpoint fail with this HTTP status.
	SubmitStatus int
	PollStatus   int
}

type Server struct {
	*httptest.Server
	opts Options

	mu          sync.Mutex
	submitCalls int
	pollCalls   int
	submissions map[string]dto.Submission
	order       map[string]int
	lastHeader  http.Header
	nextToken   int
}

func NewServer(opts Options) *Server {
	s := &Server{
		opts:        opts,
		submissions: make(map[string]dto.Submission),
		order:       make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Calls returns the number of submit and poll requests received.
func (s *Server) Calls() (submit, poll int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitCalls, s.pollCalls
}

func (s *Server) LastHeader() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHeader.Clone()
}

// Submission returns what was submitted under token.
func (s *Server) Submission(token dto.SubmissionToken) (dto.Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[string(token)]
	return sub, ok
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/submissions/batch" || r.URL.Query().Get("base64_encoded") != "false" {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastHeader = r.Header.Clone()

	switch r.Method {
	case http.MethodPost:
		s.submitCalls++
		s.submit(w, r)
	case http.MethodGet:
		s.pollCalls++
		s.poll(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	if s.opts.SubmitStatus != 0 {
		http.Error(w, `{"error":"submit failed"}`, s.opts.SubmitStatus)
		return
	}
	var body struct {
		Submissions []dto.Submission `json:"submissions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tokens := make([]map[string]string, 0, len(body.Submissions))
	for i, sub := range body.Submissions {
		s.nextToken++
		token := fmt.Sprintf("tok-%d", s.nextToken)
		s.submissions[token] = sub
		s.order[token] = i
		tokens = append(tokens, map[string]string{"token": token})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tokens)
}

func (s *Server) poll(w http.ResponseWriter, r *http.Request) {
	if s.opts.PollStatus != 0 {
		http.Error(w, `{"error":"poll failed"}`, s.opts.PollStatus)
		return
	}
	pending := s.opts.PendingPolls < 0 || s.pollCalls <= s.opts.PendingPolls

	tokens := strings.Split(r.URL.Query().Get("tokens"), ",")
	results := make([]*dto.VerdictResult, 0, len(tokens))
	for _, token := range tokens {
		sub, ok := s.submissions[token]
		if !ok {
			results = append(results, nil)
			continue
		}
		res := &dto.VerdictResult{Token: dto.SubmissionToken(token)}
		switch {
		case pending:
			res.Status = dto.Status{Id: 2, Description: "Processing"}
		case s.opts.Verdict != nil:
			res.Status = s.opts.Verdict(s.order[token], sub)
		default:
			res.Status = dto.Status{Id: 3, Description: "Accepted"}
		}
		if res.Status.IsAccepted() {
			res.Stdout = sub.ExpectedOutput
			res.Time = "0.010"
			res.Memory = 1024
		}
		results = append(results, res)
	}
	if s.opts.Reverse {
		for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
			results[i], results[j] = results[j], results[i]
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"submissions": results})
}
