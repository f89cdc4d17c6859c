//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"huffduff-video/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	loadErr    error
	setErr     error
}

// SharedConfigContext is reset before each scenario via After hook
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
		testCtx.setErr = nil
		return c, nil
	})

	// Reset context after each scenario
	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedConfigContext = &configContext{}
		return c, nil
	})

	ctx.Step(`^a configuration file containing:$`, testCtx.aConfigurationFileContaining)
	ctx.Step(`^no configuration file exists$`, testCtx.noConfigurationFileExists)
	ctx.Step(`^I load the configuration$`, testCtx.iLoadTheConfiguration)
	ctx.Step(`^I attempt to load the configuration$`, testCtx.iAttemptToLoadTheConfiguration)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, testCtx.iSetTo)
	ctx.Step(`^the setting "([^"]*)" should be "([^"]*)"$`, testCtx.theSettingShouldBe)
	ctx.Step(`^the saved setting "([^"]*)" should be "([^"]*)"$`, testCtx.theSavedSettingShouldBe)
	ctx.Step(`^the setting should be rejected$`, testCtx.theSettingShouldBeRejected)
	ctx.Step(`^I should receive an error about missing configuration$`, testCtx.iShouldReceiveAnErrorAboutMissingConfiguration)
}

func (c *configContext) aConfigurationFileContaining(doc *godog.DocString) error {
	return os.WriteFile(c.configPath, []byte(doc.Content), 0644)
}

func (c *configContext) noConfigurationFileExists() error {
	if _, err := os.Stat(c.configPath); err == nil {
		return os.Remove(c.configPath)
	}
	return nil
}

func (c *configContext) iLoadTheConfiguration() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *configContext) iAttemptToLoadTheConfiguration() error {
	cfg, err := config.Load(c.configPath)
	c.cfg = cfg
	c.loadErr = err
	return nil
}

func (c *configContext) iSetTo(key, value string) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	c.setErr = config.NewConfigManager(c.cfg, c.configPath).Set(key, value)
	return nil
}

func (c *configContext) theSettingShouldBe(key, expected string) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	return expectSetting(c.cfg, c.configPath, key, expected)
}

func (c *configContext) theSavedSettingShouldBe(key, expected string) error {
	if c.setErr != nil {
		return fmt.Errorf("set failed: %w", c.setErr)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	return expectSetting(cfg, c.configPath, key, expected)
}

func expectSetting(cfg *config.Config, path, key, expected string) error {
	got, err := config.NewConfigManager(cfg, path).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, got)
	}
	return nil
}

func (c *configContext) theSettingShouldBeRejected() error {
	if c.setErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	return nil
}

func (c *configContext) iShouldReceiveAnErrorAboutMissingConfiguration() error {
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	return nil
}
