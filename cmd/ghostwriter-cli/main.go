// Ghostwriter CLI — инструмент командной строки для управления
// каналами, очередью постов и черновиками через HTTP API.
//
// Использование:
//
//	ghostwriter [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	channel  Управление каналами
//	post     Очередь постов
//	draft    Генерация черновиков
//	style    Примеры стиля канала
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/Ghostwriter/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "ghostwriter",
		Short:         "Ghostwriter CLI — content scheduling assistant",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := os.Getenv("GHOSTWRITER_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "API server URL (env GHOSTWRITER_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewChannelCmd(clientFn, outputFn),
		cli.NewPostCmd(clientFn, outputFn),
		cli.NewDraftCmd(clientFn, outputFn),
		cli.NewStyleCmd(clientFn, outputFn),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
