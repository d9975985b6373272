package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/lauscher/internal/voiceassistant"
	"github.com/msto63/lauscher/internal/voiceassistant/session"
)

var askURL string

var askCmd = &cobra.Command{
	Use:   "ask <befehl>",
	Short: "Führt einen getippten Befehl aus",
	Long: `Führt einen Befehl ohne Mikrofon aus, so als wäre er nach dem
Aktivierungswort gesprochen worden. Die Antwort wird ausgegeben und vorgelesen.

Beispiele:
  lauscher ask "analyze this page" --url https://go.dev
  lauscher ask "what is the capital of france"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askURL, "url", "", "Seite, die vorher geöffnet wird (default: Startseite)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		printError("Konfiguration", err)
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		printError("Zugangsdaten", err)
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := buildBackends(cfg, false)
	if err != nil {
		return err
	}
	sess, err := buildSession(ctx, cfg, cfg.Session.Mode)
	if err != nil {
		printError("Sitzung", err)
		return err
	}
	defer sess.Close()

	fgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	fg := voiceassistant.NewForegroundLoop()
	go fg.Run(fgCtx)

	ctrl, err := voiceassistant.New(controllerConfig(cfg), voiceassistant.Deps{
		Speaker:    b.engine,
		LLM:        b.llm,
		Session:    sess,
		Display:    voiceassistant.NewLogDisplay(),
		Foreground: fg,
	})
	if err != nil {
		return err
	}

	home := cfg.Assistant.HomeURL
	if cmd.Flags().Changed("url") {
		home = askURL
	} else if sess.URL() != "" {
		home = ""
	}
	if home != "" {
		err := ctrl.RequestSessionAction(ctx, func(s session.Session, _ voiceassistant.Display) error {
			return s.Navigate(ctx, home)
		})
		if err != nil {
			printError("Startseite", err)
			return err
		}
	}

	fmt.Println(ctrl.Ask(ctx, strings.Join(args, " ")))
	return nil
}
