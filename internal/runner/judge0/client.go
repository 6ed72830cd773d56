package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cutekitek/rankode-judge/internal/repository/dto"
	"github.com/cutekitek/rankode-judge/pkg/utils"
	"github.com/pkg/errors"
)

const (
	DefaultPollAttempts   = 10
	DefaultPollInterval   = time.Second
	DefaultRequestTimeout = 10 * time.Second

	maxErrorBodySize = 4096
	resultFields     = "token,status,stdout,stderr,compile_output,message,time,memory"
)

type ClientConfig struct {
	BaseURL string
	// Sent as X-Auth-Token, or as X-RapidAPI-Key when APIHost is set
	APIKey  string
	APIHost string
	// Applied to every request separately
	RequestTimeout time.Duration
	PollInterval   time.Duration
	PollAttempts   int
}

type Client struct {
	cfg  ClientConfig
	http *http.Client
}

func NewClient(cfg ClientConfig, httpClient *http.Client) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = DefaultPollAttempts
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{cfg: cfg, http: httpClient}
}

type batchRequest struct {
	Submissions []dto.Submission `json:"submissions"`
}

type batchTokenItem struct {
	Token dto.SubmissionToken `json:"token"`
}

type batchResultsResponse struct {
	Submissions []*dto.VerdictResult `json:"submissions"`
}

// SubmitBatch sends all submissions in a single request. Tokens are returned in input order.
func (c *Client) SubmitBatch(ctx context.Context, submissions []dto.Submission) ([]dto.SubmissionToken, error) {
	if len(submissions) == 0 {
		return nil, ErrEmptyBatch
	}
	body, err := json.Marshal(batchRequest{Submissions: submissions})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode batch")
	}

	query := url.Values{"base64_encoded": {"false"}}
	var items []batchTokenItem
	if err := c.do(ctx, "submit batch", http.MethodPost, query, body, &items); err != nil {
		return nil, err
	}
	if len(items) != len(submissions) {
		return nil, errors.Errorf("judge returned %d tokens for %d submissions", len(items), len(submissions))
	}

	tokens := make([]dto.SubmissionToken, len(items))
	for i, item := range items {
		if item.Token == "" {
			return nil, errors.Errorf("submission %d was rejected by judge", i+1)
		}
		tokens[i] = item.Token
	}
	slog.Debug("batch submitted", "size", len(tokens))
	return tokens, nil
}

// PollBatchResults polls the status of all tokens until every one is terminal or maxAttempts
// requests were made. maxAttempts <= 0 uses the configured default. Results are returned in
// the order of tokens.
func (c *Client) PollBatchResults(ctx context.Context, tokens []dto.SubmissionToken, maxAttempts int) ([]dto.VerdictResult, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyBatch
	}
	if maxAttempts <= 0 {
		maxAttempts = c.cfg.PollAttempts
	}

	joined := make([]string, len(tokens))
	for i, t := range tokens {
		joined[i] = string(t)
	}
	query := url.Values{
		"tokens":         {strings.Join(joined, ",")},
		"base64_encoded": {"false"},
		"fields":         {resultFields},
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var resp batchResultsResponse
		if err := c.do(ctx, "poll batch", http.MethodGet, query, nil, &resp); err != nil {
			return nil, err
		}

		results, done, err := collectResults(tokens, resp.Submissions)
		if err != nil {
			return nil, err
		}
		if done {
			slog.Debug("batch finished", "size", len(tokens), "attempts", attempt)
			return results, nil
		}
		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(c.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, errors.Wrapf(ErrPollTimeout, "after %d attempts", maxAttempts)
}

// collectResults re-associates results to tokens by the token field. done is false while any
// submission is still queued or processing.
func collectResults(tokens []dto.SubmissionToken, submissions []*dto.VerdictResult) ([]dto.VerdictResult, bool, error) {
	byToken := make(map[dto.SubmissionToken]*dto.VerdictResult, len(submissions))
	for _, s := range submissions {
		if s != nil {
			byToken[s.Token] = s
		}
	}

	results := make([]dto.VerdictResult, len(tokens))
	done := true
	for i, token := range tokens {
		res, ok := byToken[token]
		if !ok {
			return nil, false, errors.Wrapf(ErrUnknownToken, "token %s", token)
		}
		if !res.Status.IsTerminal() {
			done = false
		}
		results[i] = *res
		if results[i].Status.Description == "" {
			results[i].Status.Description = StatusDescription(res.Status.Id)
		}
	}
	return results, done, nil
}

// Run judges every test case of the request as one batch.
func (c *Client) Run(ctx context.Context, req *dto.RunRequest) (*dto.RunResult, error) {
	languageId, ok := ResolveLanguageId(req.Language)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedLanguage, "language %s", req.Language)
	}

	submissions := make([]dto.Submission, 0, len(req.TestCases))
	for _, tc := range req.TestCases {
		submissions = append(submissions, dto.Submission{
			SourceCode:     req.Code,
			LanguageId:     languageId,
			Stdin:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}

	tokens, err := c.SubmitBatch(ctx, submissions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit batch")
	}
	verdicts, err := c.PollBatchResults(ctx, tokens, c.cfg.PollAttempts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to poll batch")
	}

	result := &dto.RunResult{
		LanguageId: languageId,
		Cases:      make([]dto.RunCaseResult, 0, len(verdicts)),
	}
	for _, v := range verdicts {
		elapsed, err := utils.ParseSeconds(v.Time)
		if err != nil {
			slog.Warn("invalid execution time", "token", v.Token, "time", v.Time)
		}
		result.Cases = append(result.Cases, dto.RunCaseResult{Verdict: v, ExecutionTime: elapsed})
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, op, method string, query url.Values, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+"/submissions/batch?"+query.Encode(), reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "invalid response body")}
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.cfg.APIKey == "" {
		return
	}
	if c.cfg.APIHost != "" {
		req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
		req.Header.Set("X-RapidAPI-Host", c.cfg.APIHost)
		return
	}
	req.Header.Set("X-Auth-Token", c.cfg.APIKey)
}

func (c *Client) Supports(language string) bool {
	_, ok := ResolveLanguageId(language)
	return ok
}
