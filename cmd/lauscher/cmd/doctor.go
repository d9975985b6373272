package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/lauscher/internal/voiceassistant/audio"
	"github.com/msto63/lauscher/internal/voiceassistant/tts"
	"github.com/msto63/lauscher/pkg/core/config"
	"github.com/msto63/lauscher/pkg/core/health"
	"github.com/msto63/lauscher/pkg/core/version"
)

var (
	doctorJSON    bool
	doctorTimeout time.Duration
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Prüft Backends, Zugangsdaten und Audiogeräte",
	Long: `Prüft die Erreichbarkeit aller konfigurierten Backends (Sprachmodell,
Spracherkennung, Sprachausgabe), die Zugangsdaten, die Audiogeräte und die
Browser-Sitzung.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Bericht als JSON ausgeben")
	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 15*time.Second, "Zeitlimit für alle Prüfungen")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		printError("Konfiguration", err)
		return err
	}

	registry, err := doctorRegistry(cfg)
	if err != nil {
		return err
	}

	report := registry.CheckWithTimeout(doctorTimeout)

	if doctorJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println("Lauscher Status")
	fmt.Println("===============")
	fmt.Println()
	for _, c := range report.Checks {
		icon := "[+]"
		switch c.Status {
		case health.StatusDegraded:
			icon = "[~]"
		case health.StatusUnhealthy, health.StatusUnknown:
			icon = "[-]"
		}
		fmt.Printf("  %s %-12s %-10s %s\n", icon, c.Name, c.Status, c.Message)
	}
	fmt.Println()
	fmt.Printf("Gesamt: %s\n", report.Status)

	if report.Status == health.StatusUnhealthy {
		return errors.New("unhealthy")
	}
	return nil
}

func doctorRegistry(cfg *config.Config) (*health.Registry, error) {
	registry := health.NewRegistry("lauscher", version.Version)

	registry.Register(health.ErrorCheck("credentials", func(context.Context) error {
		return cfg.RequireCredentials()
	}))

	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}
	registry.Register(health.ErrorCheck("llm", llm.HealthCheck))

	transcriber, err := buildTranscriber(cfg)
	if err != nil {
		return nil, err
	}
	registry.Register(health.ErrorCheck("stt", transcriber.Ping))

	synth, err := buildSynthesizer(cfg)
	if err != nil {
		return nil, err
	}
	if el, ok := synth.(*tts.ElevenLabs); ok {
		registry.Register(health.HTTPCheck("tts", el.UserURL(), el.APIKeyHeader()))
	}

	registry.RegisterFunc("audio", checkAudioDevices)

	switch cfg.Session.Mode {
	case sessionRemote:
		registry.Register(health.ErrorCheck("session", func(ctx context.Context) error {
			s, err := buildSession(ctx, cfg, sessionRemote)
			if err != nil {
				return err
			}
			return s.Close()
		}))
	default:
		if cfg.Assistant.HomeURL != "" {
			registry.Register(health.HTTPCheck("session", cfg.Assistant.HomeURL, nil))
		}
	}

	return registry, nil
}

func checkAudioDevices(ctx context.Context) health.CheckResult {
	devices, err := audio.Devices()
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}

	inputs, outputs := 0, 0
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			inputs++
		}
		if d.MaxOutputChannels > 0 {
			outputs++
		}
	}

	result := health.CheckResult{
		Status:  health.StatusHealthy,
		Message: fmt.Sprintf("%d Eingänge, %d Ausgänge", inputs, outputs),
		Details: map[string]interface{}{"inputs": inputs, "outputs": outputs},
	}
	if inputs == 0 || outputs == 0 {
		result.Status = health.StatusUnhealthy
	}
	return result
}
