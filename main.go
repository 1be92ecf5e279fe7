package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanpawarit/Chative-Support-Assistant/agent/agents/coordinator"
	"github.com/tanpawarit/Chative-Support-Assistant/agent/httpapi"
	configx "github.com/tanpawarit/Chative-Support-Assistant/pkg/config"
	logx "github.com/tanpawarit/Chative-Support-Assistant/pkg/logger"
	_ "github.com/tanpawarit/Chative-Support-Assistant/pkg/logger/autoload"
)

var sampleMessages = []string{
	"I want to cancel my subscription.",
	"My invoice amount is wrong.",
	"Hello, I need help.",
}

var (
	envFile         string
	chatMessages    []string
	chatSample      bool
	serveAddr       string
	shutdownTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "chative",
	Short:         "Customer-support assistant: intent classification and reply generation",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configx.SetEnvFile(envFile)
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return fmt.Errorf("load log config: %w", err)
		}
		logx.Init(*logCfg)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant from the terminal",
	RunE:  runChatCmd,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	RunE:  runServeCmd,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default ./.env when present)")
	chatCmd.Flags().StringArrayVarP(&chatMessages, "message", "m", nil, "message to send; repeat for several turns")
	chatCmd.Flags().BoolVar(&chatSample, "sample", false, "send the built-in sample messages")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	rootCmd.AddCommand(chatCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func runChatCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	c, err := a.newCoordinator()
	if err != nil {
		return err
	}

	messages := chatMessages
	if chatSample {
		messages = append(append([]string{}, sampleMessages...), messages...)
	}
	if len(messages) > 0 {
		return runMessages(ctx, c, messages, cmd.OutOrStdout())
	}
	return runREPL(ctx, c, cmd.InOrStdin(), cmd.OutOrStdout())
}

func runMessages(ctx context.Context, c *coordinator.Coordinator, messages []string, out io.Writer) error {
	for _, msg := range messages {
		fmt.Fprintln(out, "USER:", msg)
		if err := askAndPrint(ctx, c, msg, out); err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Repeat("-", 50))
	}
	return nil
}

// runREPL reads one message per line until EOF or "exit". Blank lines are skipped.
func runREPL(ctx context.Context, c *coordinator.Coordinator, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := askAndPrint(ctx, c, line, out); err != nil {
			return err
		}
	}
}

func askAndPrint(ctx context.Context, c *coordinator.Coordinator, msg string, out io.Writer) error {
	resp, err := c.Ask(ctx, msg)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	api := httpapi.New(a.newSessionManager(), a.registry)
	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", serveAddr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = httpServer.Close()
	}
	log.Info().Msg("shutdown complete")
	return nil
}
