// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the voice loop
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/msto63/lauscher/internal/tui/browser"
	"github.com/msto63/lauscher/internal/voiceassistant"
	"github.com/msto63/lauscher/internal/voiceassistant/session"
	"github.com/msto63/lauscher/pkg/core/config"
	"github.com/msto63/lauscher/pkg/core/logging"
)

var (
	runTUI       bool
	runSession   string
	runURL       string
	runWakeWords []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Startet den Sprachassistenten",
	Long: `Startet den Sprachassistenten mit Mikrofon und Sprachausgabe.

Ohne --tui läuft die Sitzung headless, Status und Antworten erscheinen im Log.
Mit --tui öffnet sich ein Terminal-Browser mit Adresszeile und Antwortbereich.

Voraussetzungen:
  - PortAudio installiert (brew install portaudio / apt install portaudio19-dev)
  - OPENAI_API_KEY und ELEVEN_API_KEY in der Umgebung oder in .env

Beispiele:
  lauscher run                          # Headless mit Startseite
  lauscher run --tui                    # Terminal-Browser
  lauscher run --session remote         # Externen Browser über WebSocket steuern
  lauscher run --wake-word "hey lauscher"`,
	RunE: runAssistant,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Terminal-Browser starten")
	runCmd.Flags().StringVar(&runSession, "session", "", "Sitzungsart: headless oder remote")
	runCmd.Flags().StringVar(&runURL, "url", "", "Startseite")
	runCmd.Flags().StringSliceVar(&runWakeWords, "wake-word", nil, "Aktivierungswort (mehrfach möglich)")
}

func runAssistant(cmd *cobra.Command, args []string) error {
	logOut := os.Stderr
	if runTUI {
		f, err := openLogFile()
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}

	cfg, err := loadConfig(logOut)
	if err != nil {
		printError("Konfiguration", err)
		return err
	}
	applyRunFlags(cmd, cfg)

	if err := cfg.RequireCredentials(); err != nil {
		printError("Zugangsdaten", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := buildBackends(cfg, true)
	if err != nil {
		return err
	}

	sess, err := buildSession(ctx, cfg, cfg.Session.Mode)
	if err != nil {
		printError("Sitzung", err)
		return err
	}
	defer sess.Close()

	deps := voiceassistant.Deps{
		Recorder:    buildRecorder(cfg),
		Transcriber: b.adapter,
		Speaker:     b.engine,
		LLM:         b.llm,
		Session:     sess,
	}

	if runTUI {
		return runWithTUI(ctx, cfg, deps, sess)
	}
	return runHeadless(ctx, cfg, deps)
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("session") {
		cfg.Session.Mode = runSession
	}
	if cmd.Flags().Changed("url") {
		cfg.Assistant.HomeURL = runURL
	}
	if cmd.Flags().Changed("wake-word") {
		cfg.Assistant.WakeWords = runWakeWords
	}
}

func runHeadless(ctx context.Context, cfg *config.Config, deps voiceassistant.Deps) error {
	logger := logging.New("run")

	fgCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fg := voiceassistant.NewForegroundLoop()
	go fg.Run(fgCtx)

	deps.Display = voiceassistant.NewLogDisplay()
	deps.Foreground = fg

	ctrl, err := voiceassistant.New(controllerConfig(cfg), deps)
	if err != nil {
		return err
	}
	ctrl.OnStateChange(func(_, s voiceassistant.ListeningState) {
		logger.Debug("Listening state", "state", s.String())
	})

	if home := cfg.Assistant.HomeURL; home != "" {
		err := ctrl.RequestSessionAction(ctx, func(s session.Session, _ voiceassistant.Display) error {
			return s.Navigate(ctx, home)
		})
		if err != nil {
			logger.Warn("Could not load home page", "url", home, "error", err)
		}
	}

	if err := ctrl.Start(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Lauscher hört zu. Aktivierungswort: %v (Ctrl+C zum Beenden)\n", cfg.Assistant.WakeWords)

	<-ctx.Done()
	fmt.Fprintln(os.Stderr, "Beende nach der laufenden Aufnahme...")
	ctrl.Stop()
	return nil
}

func runWithTUI(ctx context.Context, cfg *config.Config, deps voiceassistant.Deps, sess pageSession) error {
	panel := browser.NewPanel()
	bridge := browser.NewBridge()

	deps.Display = panel
	deps.Foreground = bridge

	ctrl, err := voiceassistant.New(controllerConfig(cfg), deps)
	if err != nil {
		return err
	}

	model := browser.NewModel(ctx, ctrl, sess, panel, cfg.Assistant.HomeURL)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)

	ctrl.OnStateChange(func(_, s voiceassistant.ListeningState) {
		bridge.Notify(browser.StateMsg{State: s})
	})
	sess.OnChange(func(session.Page) {
		bridge.Notify(browser.PageMsg{})
	})

	if err := ctrl.Start(); err != nil {
		return err
	}

	err = bridge.Run()
	ctrl.Stop()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func openLogFile() (*os.File, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, "lauscher")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, "lauscher.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
