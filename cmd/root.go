package cmd

import (
	"fmt"
	"os"

	"videoverse/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "videoverse",
	Short: "Collaborative video review backed by your Google Drive",
	Long: `videoverse stores review videos, versions and timestamped comments
in a folder of your own Google Drive:

  - Sign in with your Google account
  - Upload videos with byte-accurate progress
  - Organize re-uploads into named, numbered versions
  - Attach timestamped comments, including guest comments via share links
  - Host a guest review server for shared links

Example:
  videoverse login
  videoverse upload --file cut-one.mp4
  videoverse comments add --video <id> --at 42.5 --text "trim this beat"`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional for some commands (like help)
		// Commands that need config will check and error appropriately
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
