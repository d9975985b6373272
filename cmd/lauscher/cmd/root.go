package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/lauscher/pkg/core/config"
	"github.com/msto63/lauscher/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lauscher",
	Short: "Lauscher - Sprachgesteuerter Browser-Assistent",
	Long: `Lauscher ist ein sprachgesteuerter Assistent für eine Browser-Sitzung.

Er lauscht dauerhaft auf ein Aktivierungswort ("hey apple"), nimmt danach
einen Befehl auf und führt ihn aus:

  analyze this page   - Seite zusammenfassen und vorlesen
  go back / forward   - im Verlauf navigieren
  open <adresse>      - Adresse öffnen
  alles andere        - als Frage an das Sprachmodell`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (TOML oder YAML, default: ./lauscher.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
}

// loadConfig reads the config file and the credentials and sets up
// logging. Log output goes to out.
func loadConfig(out io.Writer) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}
	cfg.Credentials = creds

	logCfg := logging.DefaultLoggerConfig("lauscher")
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = out
	if verbose {
		logCfg.Level = "debug"
	}
	logging.Configure(logCfg)

	return cfg, nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}
