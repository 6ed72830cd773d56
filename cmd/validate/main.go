// Command validate checks the reference solutions of a problem file against Judge0.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cutekitek/rankode-judge/internal/files"
	"github.com/cutekitek/rankode-judge/internal/mappers"
	"github.com/cutekitek/rankode-judge/internal/repository/models"
	"github.com/cutekitek/rankode-judge/internal/runner/judge0"
	"github.com/cutekitek/rankode-judge/internal/validator"
	"github.com/ilyakaznacheev/cleanenv"
)

type judgeConfig struct {
	Judge0URL            string        `env:"JUDGE0_API_URL" env-default:"https://judge0-ce.p.rapidapi.com"`
	Judge0APIKey         string        `env:"JUDGE0_API_KEY"`
	Judge0APIHost        string        `env:"JUDGE0_API_HOST"`
	Judge0RequestTimeout time.Duration `env:"JUDGE0_REQUEST_TIMEOUT" env-default:"10s"`
	Judge0PollInterval   time.Duration `env:"JUDGE0_POLL_INTERVAL" env-default:"1s"`
	Judge0PollAttempts   int           `env:"JUDGE0_POLL_ATTEMPTS" env-default:"10"`
}

func main() {
	problemPath := flag.String("problem", "", "problem JSON file with reference_solutions and test_cases")
	dataDir := flag.String("data", "", "directory with input_file/output_file test data, defaults to the problem file directory")
	attempts := flag.Int("attempts", 0, "poll attempts per language, 0 uses JUDGE0_POLL_ATTEMPTS")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if *problemPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	var cfg judgeConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fail(err)
	}
	if *attempts > 0 {
		cfg.Judge0PollAttempts = *attempts
	}

	data, err := os.ReadFile(*problemPath)
	if err != nil {
		fail(err)
	}
	var req models.ValidationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		fail(fmt.Errorf("invalid problem file: %w", err))
	}
	if *dataDir == "" {
		*dataDir = filepath.Dir(*problemPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := judge0.NewClient(judge0.ClientConfig{
		BaseURL:        cfg.Judge0URL,
		APIKey:         cfg.Judge0APIKey,
		APIHost:        cfg.Judge0APIHost,
		RequestTimeout: cfg.Judge0RequestTimeout,
		PollInterval:   cfg.Judge0PollInterval,
		PollAttempts:   cfg.Judge0PollAttempts,
	}, nil)

	testCases, err := files.LoadTestCases(ctx, files.LocalStorage{Root: *dataDir}, req.TestCases)
	if err == nil {
		err = validator.NewValidator(client).Validate(ctx, req.ReferenceSolutions, testCases)
	}
	resp := mappers.ValidationResult(&req, err)

	out, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Println(string(out))
	if resp.Status != models.ValidationStatusAccepted {
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "validate:", err)
	os.Exit(2)
}
