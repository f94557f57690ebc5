package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/arul-selvam/steel-quotes/internal/extract"
	"github.com/arul-selvam/steel-quotes/internal/extract/openai"
)

// One-shot extraction over a single message, for prompt and schema debugging.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: extract <message...>")
		os.Exit(2)
	}
	input := strings.Join(os.Args[1:], " ")

	_ = godotenv.Load()

	var extractor extract.QuoteExtractor
	if os.Getenv("OPENAI_API_KEY") != "" {
		extractor = openai.NewClient(openai.Config{
			Model:       getenv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Temperature: 0.0,
			Timeout:     45 * time.Second,
			Lenient:     true,
		}, logger)
	} else {
		logger.Info("no OPENAI_API_KEY, using rule-based parser")
		extractor = extract.NewRuleParser(logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	ext, raw, err := extractor.ExtractQuote(ctx, extract.ExtractRequest{Input: input})
	if err != nil {
		logger.Error("extract.error", "err", err)
		os.Exit(1)
	}
	logger.Info("extract.ok", "elapsed_ms", time.Since(start).Milliseconds(),
		"method", ext.ExtractionMethod, "confidence", ext.Confidence)

	if len(raw) > 0 {
		fmt.Println("--- raw ---")
		fmt.Println(string(raw))
	}
	out, _ := json.MarshalIndent(ext, "", "  ")
	fmt.Println("--- canonical ---")
	fmt.Println(string(out))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
