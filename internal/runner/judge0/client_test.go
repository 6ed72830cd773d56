package judge0

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cutekitek/rankode-judge/internal/repository/dto"
	"github.com/cutekitek/rankode-judge/internal/runner/judge0/judge0test"
)

func newTestClient(srv *judge0test.Server) *Client {
	return NewClient(ClientConfig{
		BaseURL:      srv.URL,
		PollInterval: time.Millisecond,
	}, srv.Client())
}

func testSubmissions(n int) []dto.Submission {
	subs := make([]dto.Submission, n)
	for i := range subs {
		subs[i] = dto.Submission{
			SourceCode:     "print(input())",
			LanguageId:     71,
			Stdin:          fmt.Sprintf("in-%d", i),
			ExpectedOutput: fmt.Sprintf("in-%d", i),
		}
	}
	return subs
}

func TestSubmitBatch_ReturnsTokensInOrder(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{})
	defer srv.Close()
	client := newTestClient(srv)

	for _, n := range []int{1, 2, 7} {
		t.Run(fmt.Sprintf("%d submissions", n), func(t *testing.T) {
			subs := testSubmissions(n)
			tokens, err := client.SubmitBatch(context.Background(), subs)
			if err != nil {
				t.Fatalf("SubmitBatch failed: %v", err)
			}
			if len(tokens) != n {
				t.Fatalf("expected %d tokens, got %d", n, len(tokens))
			}
			for i, token := range tokens {
				sub, ok := srv.Submission(token)
				if !ok {
					t.Fatalf("token %s is unknown to the judge", token)
				}
				if sub != subs[i] {
					t.Fatalf("token %d maps to %+v, expected %+v", i, sub, subs[i])
				}
			}
		})
	}
}

func TestSubmitBatch_Empty(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{})
	defer srv.Close()

	_, err := newTestClient(srv).SubmitBatch(context.Background(), nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if submit, poll := srv.Calls(); submit+poll != 0 {
		t.Fatalf("expected no requests, got %d submit %d poll", submit, poll)
	}
}

func TestSubmitBatch_HTTPError(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{SubmitStatus: http.StatusUnprocessableEntity})
	defer srv.Close()

	_, err := newTestClient(srv).SubmitBatch(context.Background(), testSubmissions(2))
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status code: %d", transportErr.StatusCode)
	}
	if submit, _ := srv.Calls(); submit != 1 {
		t.Fatalf("expected exactly one submit request, got %d", submit)
	}
}

func TestSubmitBatch_RejectedItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"token":"a"},{"language_id":["language with id 9999 doesn't exist"]}]`)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL}, srv.Client())
	if _, err := client.SubmitBatch(context.Background(), testSubmissions(2)); err == nil {
		t.Fatalf("expected error for a rejected submission")
	}
}

func TestSubmitBatch_TokenCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"token":"a"}]`)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL}, srv.Client())
	if _, err := client.SubmitBatch(context.Background(), testSubmissions(3)); err == nil {
		t.Fatalf("expected error for a short token list")
	}
}

func TestSubmitBatch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(ClientConfig{BaseURL: url}, nil)
	_, err := client.SubmitBatch(context.Background(), testSubmissions(1))
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Err == nil {
		t.Fatalf("expected an underlying network error")
	}
}

func TestPollBatchResults_ReturnsWhenAllTerminal(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{PendingPolls: 2})
	defer srv.Close()
	client := newTestClient(srv)

	tokens, err := client.SubmitBatch(context.Background(), testSubmissions(3))
	if err != nil {
		t.Fatalf("SubmitBatch failed: %v", err)
	}
	results, err := client.PollBatchResults(context.Background(), tokens, 10)
	if err != nil {
		t.Fatalf("PollBatchResults failed: %v", err)
	}
	if _, poll := srv.Calls(); poll != 3 {
		t.Fatalf("expected 3 poll requests, got %d", poll)
	}
	for i, res := range results {
		if !res.Status.IsAccepted() {
			t.Fatalf("result %d is not accepted: %+v", i, res.Status)
		}
	}
}

func TestPollBatchResults_ImmediatelyTerminal(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{})
	defer srv.Close()
	client := newTestClient(srv)

	tokens, _ := client.SubmitBatch(context.Background(), testSubmissions(2))
	if _, err := client.PollBatchResults(context.Background(), tokens, 10); err != nil {
		t.Fatalf("PollBatchResults failed: %v", err)
	}
	if _, poll := srv.Calls(); poll != 1 {
		t.Fatalf("expected a single poll request, got %d", poll)
	}
}

func TestPollBatchResults_Timeout(t *testing.T) {
	for _, attempts := range []int{1, 4, 10} {
		t.Run(fmt.Sprintf("%d attempts", attempts), func(t *testing.T) {
			srv := judge0test.NewServer(judge0test.Options{PendingPolls: -1})
			defer srv.Close()
			client := newTestClient(srv)

			tokens, _ := client.SubmitBatch(context.Background(), testSubmissions(2))
			_, err := client.PollBatchResults(context.Background(), tokens, attempts)
			if !errors.Is(err, ErrPollTimeout) {
				t.Fatalf("expected ErrPollTimeout, got %v", err)
			}
			if _, poll := srv.Calls(); poll != attempts {
				t.Fatalf("expected %d poll requests, got %d", attempts, poll)
			}
		})
	}
}

func TestPollBatchResults_DefaultAttempts(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{PendingPolls: -1})
	defer srv.Close()
	client := newTestClient(srv)

	tokens, _ := client.SubmitBatch(context.Background(), testSubmissions(1))
	_, err := client.PollBatchResults(context.Background(), tokens, 0)
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("expected ErrPollTimeout, got %v", err)
	}
	if _, poll := srv.Calls(); poll != DefaultPollAttempts {
		t.Fatalf("expected %d poll requests, got %d", DefaultPollAttempts, poll)
	}
}

func TestPollBatchResults_ReassociatesByToken(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{
		Reverse: true,
		Verdict: func(index int, sub dto.Submission) dto.Status {
			if index == 0 {
				return dto.Status{Id: StatusWrongAnswer, Description: "Wrong Answer"}
			}
			return dto.Status{Id: StatusAccepted, Description: "Accepted"}
		},
	})
	defer srv.Close()
	client := newTestClient(srv)

	tokens, _ := client.SubmitBatch(context.Background(), testSubmissions(3))
	results, err := client.PollBatchResults(context.Background(), tokens, 10)
	if err != nil {
		t.Fatalf("PollBatchResults failed: %v", err)
	}
	for i, res := range results {
		if res.Token != tokens[i] {
			t.Fatalf("result %d has token %s, expected %s", i, res.Token, tokens[i])
		}
	}
	if results[0].Status.Id != StatusWrongAnswer {
		t.Fatalf("expected first result to be wrong answer, got %+v", results[0].Status)
	}
}

func TestPollBatchResults_UnknownToken(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{})
	defer srv.Close()

	_, err := newTestClient(srv).PollBatchResults(context.Background(), []dto.SubmissionToken{"missing"}, 3)
	if !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
}

func TestPollBatchResults_TransportErrorIsNotRetried(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{PollStatus: http.StatusServiceUnavailable})
	defer srv.Close()
	client := newTestClient(srv)

	tokens, _ := client.SubmitBatch(context.Background(), testSubmissions(1))
	_, err := client.PollBatchResults(context.Background(), tokens, 5)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if _, poll := srv.Calls(); poll != 1 {
		t.Fatalf("expected a single poll request, got %d", poll)
	}
}

func TestPollBatchResults_ContextCanceled(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{PendingPolls: -1})
	defer srv.Close()
	client := NewClient(ClientConfig{BaseURL: srv.URL, PollInterval: time.Hour}, srv.Client())

	tokens, _ := client.SubmitBatch(context.Background(), testSubmissions(1))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.PollBatchResults(ctx, tokens, 3)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline, got %v", err)
	}
}

func TestClient_RequestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	client := NewClient(ClientConfig{BaseURL: srv.URL, RequestTimeout: 50 * time.Millisecond}, srv.Client())
	_, err := client.SubmitBatch(context.Background(), testSubmissions(1))
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestClient_AuthHeaders(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		headers map[string]string
	}{
		{
			name:    "self hosted",
			cfg:     ClientConfig{APIKey: "secret"},
			headers: map[string]string{"X-Auth-Token": "secret", "X-RapidAPI-Key": ""},
		},
		{
			name:    "rapidapi",
			cfg:     ClientConfig{APIKey: "secret", APIHost: "judge0-ce.p.rapidapi.com"},
			headers: map[string]string{"X-RapidAPI-Key": "secret", "X-RapidAPI-Host": "judge0-ce.p.rapidapi.com", "X-Auth-Token": ""},
		},
		{
			name:    "anonymous",
			cfg:     ClientConfig{},
			headers: map[string]string{"X-Auth-Token": "", "X-RapidAPI-Key": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := judge0test.NewServer(judge0test.Options{})
			defer srv.Close()
			tt.cfg.BaseURL = srv.URL
			client := NewClient(tt.cfg, srv.Client())

			if _, err := client.SubmitBatch(context.Background(), testSubmissions(1)); err != nil {
				t.Fatalf("SubmitBatch failed: %v", err)
			}
			header := srv.LastHeader()
			for k, v := range tt.headers {
				if got := header.Get(k); got != v {
					t.Fatalf("header %s: expected %q, got %q", k, v, got)
				}
			}
		})
	}
}

func TestRun_UnsupportedLanguage(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{})
	defer srv.Close()

	_, err := newTestClient(srv).Run(context.Background(), &dto.RunRequest{
		Language:  "cobol",
		Code:      "DISPLAY 'HI'.",
		TestCases: []dto.TestCase{{Input: "", ExpectedOutput: "HI"}},
	})
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if submit, poll := srv.Calls(); submit+poll != 0 {
		t.Fatalf("expected no requests, got %d submit %d poll", submit, poll)
	}
}

func TestRun_BuildsOneSubmissionPerTestCase(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{PendingPolls: 1})
	defer srv.Close()

	req := &dto.RunRequest{
		Language: "Python",
		Code:     "print(int(input()) * 2)",
		TestCases: []dto.TestCase{
			{Input: "1", ExpectedOutput: "2"},
			{Input: "5", ExpectedOutput: "10"},
		},
	}
	res, err := newTestClient(srv).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.LanguageId != 71 {
		t.Fatalf("expected language id 71, got %d", res.LanguageId)
	}
	if len(res.Cases) != len(req.TestCases) {
		t.Fatalf("expected %d cases, got %d", len(req.TestCases), len(res.Cases))
	}
	for i, c := range res.Cases {
		sub, ok := srv.Submission(c.Verdict.Token)
		if !ok {
			t.Fatalf("case %d has unknown token %s", i, c.Verdict.Token)
		}
		if sub.Stdin != req.TestCases[i].Input || sub.ExpectedOutput != req.TestCases[i].ExpectedOutput {
			t.Fatalf("case %d submitted as %+v", i, sub)
		}
		if sub.LanguageId != 71 || sub.SourceCode != req.Code {
			t.Fatalf("case %d submitted with wrong source or language: %+v", i, sub)
		}
		if c.ExecutionTime.Round(time.Millisecond) != 10*time.Millisecond {
			t.Fatalf("case %d: expected 10ms, got %s", i, c.ExecutionTime)
		}
	}
	if submit, poll := srv.Calls(); submit != 1 || poll != 2 {
		t.Fatalf("expected 1 submit and 2 polls, got %d and %d", submit, poll)
	}
}

func TestPollBatchResults_FillsMissingDescription(t *testing.T) {
	srv := judge0test.NewServer(judge0test.Options{
		Verdict: func(index int, sub dto.Submission) dto.Status {
			if index == 0 {
				return dto.Status{Id: StatusWrongAnswer}
			}
			return dto.Status{Id: StatusRuntimeNZEC, Description: "Runtime Error (NZEC) custom"}
		},
	})
	defer srv.Close()
	client := newTestClient(srv)

	tokens, err := client.SubmitBatch(context.Background(), testSubmissions(2))
	if err != nil {
		t.Fatalf("SubmitBatch failed: %v", err)
	}
	results, err := client.PollBatchResults(context.Background(), tokens, 3)
	if err != nil {
		t.Fatalf("PollBatchResults failed: %v", err)
	}
	if results[0].Status.Description != "Wrong Answer" {
		t.Fatalf("expected description from the status table, got %q", results[0].Status.Description)
	}
	if results[1].Status.Description != "Runtime Error (NZEC) custom" {
		t.Fatalf("reported description must be kept, got %q", results[1].Status.Description)
	}
}
