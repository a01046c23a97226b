package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easeaico/mindcare/internal/config"
	"github.com/easeaico/mindcare/internal/mood"
	"github.com/easeaico/mindcare/internal/sentiment"
)

func newAnalyzeCmd() *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Run the mood engine on text and print the result as JSON",
		Long: `analyze classifies the given text, or each non-empty line of stdin when no
arguments are given, and prints one JSON result per input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(os.Getenv("CONFIG_FILE"))
			if err != nil {
				return err
			}
			if provider != "" && !strings.EqualFold(provider, cfg.SentimentProvider) {
				cfg.SentimentProvider = provider
				if os.Getenv("SENTIMENT_MODEL") == "" {
					cfg.SentimentModel = config.DefaultModel(provider)
				}
			}

			scorer, err := sentiment.New(cmd.Context(), sentiment.Options{
				Provider:      cfg.SentimentProvider,
				Model:         cfg.SentimentModel,
				GoogleAPIKey:  cfg.GoogleAPIKey,
				OpenAIAPIKey:  cfg.OpenAIAPIKey,
				OpenAIBaseURL: cfg.OpenAIBaseURL,
				Timeout:       cfg.SentimentTimeout,
			})
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			engine := mood.NewEngine(mood.WithScorer(scorer), mood.WithLogger(logger))

			inputs := []string{strings.Join(args, " ")}
			if len(args) == 0 {
				inputs, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, text := range inputs {
				if err := enc.Encode(engine.Analyze(cmd.Context(), text)); err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "Sentiment provider override (lexicon, gemini, openai)")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}
