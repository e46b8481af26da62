package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/platform/ollama"
)

// checkTimeout bounds the whole check-ai run.
const checkTimeout = 10 * time.Second

var (
	errOllamaUnreachable = errors.New("ollama is not reachable")
	errModelMissing      = errors.New("model is not installed")
)

func newCheckAICmd(load configLoader) *cobra.Command {
	var endpoints []string
	var model string
	cmd := &cobra.Command{
		Use:   "check-ai",
		Short: "Verify that Ollama is running and the configured model is installed",
		Long: `check-ai queries /api/tags on each configured Ollama endpoint and checks
that the model used for card generation is installed. It exits non-zero
with setup instructions when either check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			llm := cfg.LLM
			if len(endpoints) > 0 {
				llm.OllamaEndpoints = endpoints
			}
			if model != "" {
				llm.OllamaModel = model
			}
			llm.TimeoutSeconds = int(checkTimeout / time.Second)
			return runCheckAI(cmd, llm)
		},
	}
	cmd.Flags().StringSliceVar(&endpoints, "endpoint", nil, "Ollama endpoint to check (repeatable, overrides config)")
	cmd.Flags().StringVar(&model, "model", "", "model name to look for (overrides config)")
	return cmd
}

func runCheckAI(cmd *cobra.Command, llm config.LLMConfig) error {
	log, err := commandLogger(cmd)
	if err != nil {
		return err
	}
	client, err := ollama.NewClient(llm, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	out := cmd.OutOrStdout()
	models, err := client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(out, "Ollama is not reachable at %v.\n", llm.OllamaEndpoints)
		fmt.Fprintln(out, "Install it from https://ollama.com and start it with: ollama serve")
		if errors.Is(err, generation.ErrUnavailable) || errors.Is(err, generation.ErrTimeout) {
			return errOllamaUnreachable
		}
		return fmt.Errorf("%w: %w", errOllamaUnreachable, err)
	}
	fmt.Fprintf(out, "Ollama is running (%d models installed).\n", len(models))

	ok, err := client.HasModel(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(out, "Model %s is missing. Download it with: ollama pull %s\n", client.Model(), client.Model())
		return errModelMissing
	}
	fmt.Fprintf(out, "Model %s is installed. AI card generation is ready.\n", client.Model())
	return nil
}
