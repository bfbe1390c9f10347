package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ryohei/eigo/internal/config"
	"github.com/ryohei/eigo/internal/history"
	"github.com/ryohei/eigo/internal/logger"
	"github.com/ryohei/eigo/internal/tutor"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive tutoring session",
	Long: `Start an interactive TOEIC Part 5 tutoring session.
Reuses the agent named by AGENT_ID when set, otherwise creates a fresh
one (and deletes it again at the end of the session).
Quit with "q", end-of-input, or Ctrl+C.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	// Config problems abort before any remote call.
	if err := cfg.Validate(); err != nil {
		return err
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: true,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return err
	}
	defer lg.Close()

	out := cmd.OutOrStdout()

	var recorder tutor.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			lg.Warn().Err(err).Str("path", cfg.History.Path).Msg("history disabled: cannot open store")
		} else {
			defer store.Close()
			recorder = store
		}
	}

	client := tutor.NewOpenAIClient(cfg.Endpoint, cfg.APIKey)
	sess := tutor.NewSession(client, tutor.Options{
		Model:    cfg.Model,
		AgentID:  cfg.AgentID,
		Out:      out,
		Log:      lg.GetZerolog(),
		Recorder: recorder,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(out, "TOEIC Part 5 tutoring console")
	fmt.Fprintln(out, "Quit: q / Ctrl+C")
	fmt.Fprintln(out)

	// Start failures (unreachable endpoint, unknown AGENT_ID) are the
	// only remote errors allowed to terminate the process.
	if err := sess.Start(ctx, tutor.Instructions); err != nil {
		return err
	}
	// Cleanup gets a fresh context: by the time it runs the loop context
	// is usually already cancelled.
	defer sess.Close(context.Background())

	loopErr := sess.RunLoop(ctx, cmd.InOrStdin())
	stop()
	sess.Close(context.Background())
	fmt.Fprintln(out, "Graceful shutdown complete.")
	return loopErr
}
