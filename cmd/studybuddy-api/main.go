package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	httpadapter "github.com/PabloGalante/studybuddy/internal/adapters/http"
	"github.com/PabloGalante/studybuddy/internal/app/attribution"
	"github.com/PabloGalante/studybuddy/internal/app/auth"
	"github.com/PabloGalante/studybuddy/internal/app/conversation"
	"github.com/PabloGalante/studybuddy/internal/app/profile"
	"github.com/PabloGalante/studybuddy/internal/app/settings"
	"github.com/PabloGalante/studybuddy/internal/app/upload"
	"github.com/PabloGalante/studybuddy/internal/config"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

const shutdownTimeout = 20 * time.Second

var rootCmd = &cobra.Command{
	Use:           "studybuddy-api",
	Short:         "Study companion API: chat sessions, uploads, profiles",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().String("port", "", "listen port (overrides STUDYBUDDY_PORT)")
	rootCmd.Flags().String("log-level", "", "debug, info, warn or error (overrides STUDYBUDDY_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		observability.Logger().Error("studybuddy-api exited", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("port"); v != "" {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	observability.SetLevel(cfg.LogLevel)
	log := observability.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	llmClient, err := newLLM(ctx, cfg)
	if err != nil {
		return err
	}

	idp, err := newIdentity(cfg)
	if err != nil {
		return err
	}

	profiles := profile.NewService(store)
	authSvc := auth.NewService(idp.provider, nil)
	conv := conversation.NewService(llmClient, attribution.New(nil), profiles, conversation.Options{
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	// sign-out finalizes the user's live chat sessions
	authSvc.Subscribe(conv.HandleAuthChange)

	prefs, err := settings.Load(cfg.SettingsDir)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	go conv.RunJanitor(ctx, cfg.JanitorInterval)

	e := httpadapter.NewServer(httpadapter.Deps{
		Conversations: conv,
		Profiles:      profiles,
		Auth:          authSvc,
		Images:        upload.NewImageAnalyzer(newOCR(ctx, cfg)),
		Avatars:       upload.NewAvatarService(idp.objects, store),
		Settings:      prefs,
		Verifier:      idp.verifier,
		Objects:       idp.objectReader,
		SubmitRate:    rate.Limit(cfg.SubmitRatePerSecond),
		SubmitBurst:   cfg.SubmitBurst,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("studybuddy-api listening",
			"port", cfg.Port,
			"mode", cfg.Mode,
			"storage", cfg.StorageBackend,
			"mock_llm", cfg.MockLLM())
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	if err := conv.Shutdown(shutdownCtx); err != nil {
		log.Error("pending session writes abandoned", "error", err)
	}
	log.Info("studybuddy-api stopped")
	return nil
}
