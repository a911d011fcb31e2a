// Command distill streams a completion from an LLM provider and turns the
// response into a parsed JSON document, repairing it when needed.
//
// Usage:
//
//	distill stream [flags] [prompt]   stream a completion; prompt defaults to stdin
//	distill replay <capture.json>     re-run a captured stream offline
//	distill repair [file]             repair a finished response; file defaults to stdin
//	distill version
//
// Provider keys come from the config file or the usual environment
// variables (OPENAI_API_KEY, ANTHROPIC_API_KEY, DEEPSEEK_API_KEY,
// OPENROUTER_API_KEY, GEMINI_API_KEY, OLLAMA_HOST).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Env vars are read here and passed down as a lookup function.
	root := newRootCmd(os.Getenv, os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "distill: %v\n", err)
		stop()
		os.Exit(1)
	}
}
