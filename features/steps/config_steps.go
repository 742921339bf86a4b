//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"videoverse/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	loadErr    error
}

// SharedConfigContext is reset around each scenario via the hooks
var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.cfg = nil
		testCtx.loadErr = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedConfigContext = &configContext{}
		return c, nil
	})

	ctx.Step(`^a config file containing:$`, testCtx.aConfigFileContaining)
	ctx.Step(`^no config file exists$`, testCtx.noConfigFileExists)
	ctx.Step(`^I load the config$`, testCtx.iLoadTheConfig)
	ctx.Step(`^the config should have folder_name "([^"]*)"$`, testCtx.theConfigShouldHaveFolderName)
	ctx.Step(`^the config should have folder_conflict "([^"]*)"$`, testCtx.theConfigShouldHaveFolderConflict)
	ctx.Step(`^the config should have credentials_file "([^"]*)"$`, testCtx.theConfigShouldHaveCredentialsFile)
	ctx.Step(`^the config should have share secret "([^"]*)"$`, testCtx.theConfigShouldHaveShareSecret)
	ctx.Step(`^the config should have link TTL (\d+) hours$`, testCtx.theConfigShouldHaveLinkTTL)
	ctx.Step(`^optimistic writes should be enabled$`, testCtx.optimisticWritesShouldBeEnabled)
	ctx.Step(`^loading should fail$`, testCtx.loadingShouldFail)
}

func (s *configContext) aConfigFileContaining(content *godog.DocString) error {
	return os.WriteFile(s.configPath, []byte(content.Content), 0644)
}

func (s *configContext) noConfigFileExists() error {
	// Nothing to do; the temp dir starts empty
	return nil
}

func (s *configContext) iLoadTheConfig() error {
	s.cfg, s.loadErr = config.Load(s.configPath)
	return nil
}

func (s *configContext) loaded() (*config.Config, error) {
	if s.loadErr != nil {
		return nil, fmt.Errorf("config load failed: %w", s.loadErr)
	}
	if s.cfg == nil {
		return nil, fmt.Errorf("config was not loaded")
	}
	return s.cfg, nil
}

func (s *configContext) theConfigShouldHaveFolderName(expected string) error {
	cfg, err := s.loaded()
	if err != nil {
		return err
	}
	if cfg.Drive.FolderName != expected {
		return fmt.Errorf("expected folder_name %q, got %q", expected, cfg.Drive.FolderName)
	}
	return nil
}

func (s *configContext) theConfigShouldHaveFolderConflict(expected string) error {
	cfg, err := s.loaded()
	if err != nil {
		return err
	}
	if cfg.Drive.FolderConflict != expected {
		return fmt.Errorf("expected folder_conflict %q, got %q", expected, cfg.Drive.FolderConflict)
	}
	return nil
}

func (s *configContext) theConfigShouldHaveCredentialsFile(expected string) error {
	cfg, err := s.loaded()
	if err != nil {
		return err
	}
	if cfg.Google.CredentialsFile != expected {
		return fmt.Errorf("expected credentials_file %q, got %q", expected, cfg.Google.CredentialsFile)
	}
	return nil
}

func (s *configContext) theConfigShouldHaveShareSecret(expected string) error {
	cfg, err := s.loaded()
	if err != nil {
		return err
	}
	if cfg.Share.Secret != expected {
		return fmt.Errorf("expected share secret %q, got %q", expected, cfg.Share.Secret)
	}
	return nil
}

func (s *configContext) theConfigShouldHaveLinkTTL(expected int) error {
	cfg, err := s.loaded()
	if err != nil {
		return err
	}
	if cfg.Share.LinkTTLHours != expected {
		return fmt.Errorf("expected link TTL %d hours, got %d", expected, cfg.Share.LinkTTLHours)
	}
	return nil
}

func (s *configContext) optimisticWritesShouldBeEnabled() error {
	cfg, err := s.loaded()
	if err != nil {
		return err
	}
	if !cfg.Drive.OptimisticWrites {
		return fmt.Errorf("expected optimistic writes to be enabled")
	}
	return nil
}

func (s *configContext) loadingShouldFail() error {
	if s.loadErr == nil {
		return fmt.Errorf("expected loading to fail, but it succeeded")
	}
	return nil
}
