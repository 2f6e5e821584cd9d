// Package main provides the Food Ninja CLI. It runs the same services as
// the HTTP server against the configured upstream APIs, without a server.
//
// Run with: go run ./cmd/cli predict --image banana.jpg
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/foodninja-api/internal/config"
	"github.com/fleveque/foodninja-api/internal/handler"
	"github.com/fleveque/foodninja-api/internal/server"
	"github.com/fleveque/foodninja-api/internal/service"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree:
// foodninja predict --image meal.jpg
// foodninja chat "Is oatmeal a good breakfast?"
// foodninja ask "How much protein is in tofu?"
func rootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "foodninja",
		Short:        "Food Ninja command line tools",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log upstream calls to stderr")

	root.AddCommand(predictCmd(&verbose), chatCmd(&verbose), askCmd(&verbose))
	return root
}

func predictCmd(verbose *bool) *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify a food photo and print nutrition and a health summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(*verbose, func(ctx context.Context, deps server.Deps) error {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("reading image: %w", err)
				}

				result, err := deps.Predictions.Predict(ctx, service.Upload{
					Filename: filepath.Base(imagePath),
					Data:     data,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, handler.PredictionResponse(result))
			})
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to a PNG, JPG, GIF, BMP or WEBP image")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func chatCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a chatbot message to the language model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(*verbose, func(ctx context.Context, deps server.Deps) error {
				answer, err := deps.Chat.Reply(ctx, strings.Join(args, " "), "No message provided")
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]string{"response": answer})
			})
		},
	}
}

func askCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask the language model a one-off question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(*verbose, func(ctx context.Context, deps server.Deps) error {
				answer, err := deps.Chat.Reply(ctx, strings.Join(args, " "), "No prompt provided")
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]string{"result": answer})
			})
		},
	}
}

// withDeps loads configuration, wires the services and runs fn with a
// context cancelled on Ctrl+C.
func withDeps(verbose bool, fn func(ctx context.Context, deps server.Deps) error) error {
	configPath := os.Getenv("FOODNINJA_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		// Development logger writes to stderr, keeping stdout clean JSON.
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
	}
	defer func() { _ = logger.Sync() }()

	deps, err := server.BuildDeps(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return fn(ctx, deps)
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
