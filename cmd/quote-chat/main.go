package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/arul-selvam/steel-quotes/internal/conversation"
	"github.com/arul-selvam/steel-quotes/internal/extract"
	"github.com/arul-selvam/steel-quotes/internal/extract/openai"
	"github.com/arul-selvam/steel-quotes/internal/quote"
	"github.com/arul-selvam/steel-quotes/internal/session"
)

// Interactive REPL over the conversation driver. Drafts live in memory only;
// "generate" prints the projected document instead of persisting it.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	var extractor extract.QuoteExtractor
	if os.Getenv("OPENAI_API_KEY") != "" {
		extractor = openai.NewClient(openai.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Lenient: true,
		}, logger)
		fmt.Println("extraction: openai")
	} else {
		fmt.Println("extraction: rule-based (set OPENAI_API_KEY for LLM extraction)")
	}

	driver := conversation.NewDriver(extractor, logger)
	sessions := session.NewManager(logger)
	sess := sessions.Create()

	fmt.Println("steel quotes chat. type 'help' for commands, 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit":
			fmt.Println("bye.")
			return
		case "draft", "show":
			fmt.Println(quote.Summarize(sess.Draft))
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		reply := driver.HandleMessage(ctx, sess, line)
		cancel()

		fmt.Println(reply.Text)
		if reply.Generated != nil {
			fmt.Printf("quotation for %s: %d item(s), grand total %.2f\n",
				reply.Generated.CustomerName, len(reply.Generated.Items), reply.Generated.GrandTotal)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("stdin read", "error", err)
		os.Exit(1)
	}
}
