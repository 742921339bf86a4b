package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"videoverse/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through pointing at your OAuth client
credentials, naming the Drive application folder, and configuring the
guest share links.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	defaults := config.Default()
	cfg := config.Default()

	var err error
	cfg.Google.CredentialsFile, err = prompter.Input("Path to OAuth client credentials JSON:", defaults.Google.CredentialsFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	cfg.Google.SessionFile, err = prompter.Input("Path for the persisted session:", defaults.Google.SessionFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	cfg.Drive.FolderName, err = prompter.Input("Application folder name in Drive:", defaults.Drive.FolderName)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	cfg.Drive.OptimisticWrites, err = prompter.Confirm("Enable optimistic comment writes (retry on conflict)?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	cfg.Share.Secret, err = prompter.Input("Secret for signing guest share links:", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	cfg.Share.BaseURL, err = prompter.Input("Public base URL of the review server:", defaults.Share.BaseURL)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", configPath)
	return nil
}
