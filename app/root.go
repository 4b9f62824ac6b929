// Package app implements the main application commands.
package app

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/PropertyLens/PropertyLens/internal/config"
	"github.com/PropertyLens/PropertyLens/internal/logger"
)

var (
	configPath string // Path to the configuration directory
	envFile    string // optional .env file

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "propertylens",
	Short: "PropertyLens is the admin API of a real estate photography site",
	Long: `PropertyLens serves the content of a real estate photography website:
gallery, services, pricing, FAQs, blog, testimonials, the contact inbox and
the media library, behind a role based staff login.`,
	Args: cobra.OnlyValidArgs,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadEnv(envFile); err != nil {
			return err
		}

		var err error
		if cfg, err = config.ReadConfig(configPath); err != nil {
			return err
		}

		return logger.Init(cfg.Log)
	},
	SilenceUsage: true,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "path to the directory holding main.toml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file loaded before the config")
}

// loadEnv loads name into the environment. A missing default file is fine.
func loadEnv(name string) error {
	if name == "" {
		return nil
	}

	if _, err := os.Stat(name); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(name); err != nil {
		return err
	}

	log.Debug().Str("file", name).Msg("environment file loaded")

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
