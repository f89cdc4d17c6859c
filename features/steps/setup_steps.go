//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"huffduff-video/cmd"
	"huffduff-video/infrastructure/config"

	"github.com/cucumber/godog"
)

// answerBook answers setup prompts by keyword. A prompt whose message
// contains no known keyword gets its default.
type answerBook struct {
	answers map[string]string
	asked   []string
}

func newAnswerBook() *answerBook {
	return &answerBook{answers: map[string]string{}}
}

func (b *answerBook) lookup(message string) (string, bool) {
	b.asked = append(b.asked, message)
	lower := strings.ToLower(message)
	for keyword, answer := range b.answers {
		if strings.Contains(lower, keyword) {
			return answer, true
		}
	}
	return "", false
}

func (b *answerBook) Input(message string, defaultValue string) (string, error) {
	if answer, ok := b.lookup(message); ok {
		return answer, nil
	}
	return defaultValue, nil
}

func (b *answerBook) Confirm(message string, defaultValue bool) (bool, error) {
	if answer, ok := b.lookup(message); ok {
		return strings.EqualFold(answer, "y"), nil
	}
	return defaultValue, nil
}

type setupScenario struct {
	dir        string
	configPath string
	existing   []byte
	book       *answerBook
	err        error
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	s := &setupScenario{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "huffduff-setup-*")
		if err != nil {
			return c, err
		}
		*s = setupScenario{
			dir:        dir,
			configPath: filepath.Join(dir, "config", "config.yaml"),
			book:       newAnswerBook(),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s.dir != "" {
			_ = os.RemoveAll(s.dir)
		}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, s.noConfigFile)
	ctx.Step(`^a config file already exists for setup$`, s.existingConfigFile)
	ctx.Step(`^I run the setup command with inputs:$`, s.runWithAnswers)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, s.runWithOverwrite)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)" and inputs:$`, s.runWithOverwriteAndAnswers)
	ctx.Step(`^a config file should exist$`, s.configFileExists)
	ctx.Step(`^the config should have "([^"]*)" set to "([^"]*)"$`, s.configHasSetting)
	ctx.Step(`^the setup should fail with "([^"]*)"$`, s.setupFailedWith)
	ctx.Step(`^the setup should be cancelled$`, s.setupCancelled)
	ctx.Step(`^the existing config should be unchanged$`, s.configUnchanged)
}

func (s *setupScenario) noConfigFile() error {
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func (s *setupScenario) existingConfigFile() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}
	s.existing = []byte(`storage:
  bucket: "original-bucket"
  credentials_file: "original-key.json"
media:
  audio_quality: "128K"
`)
	return os.WriteFile(s.configPath, s.existing, 0644)
}

func (s *setupScenario) record(table *godog.Table) {
	for _, row := range table.Rows[1:] {
		s.book.answers[strings.ToLower(row.Cells[0].Value)] = row.Cells[1].Value
	}
}

func (s *setupScenario) run() {
	s.err = cmd.RunSetupWithPrompter(s.book, s.configPath)
}

func (s *setupScenario) runWithAnswers(table *godog.Table) error {
	s.record(table)
	s.run()
	return nil
}

func (s *setupScenario) runWithOverwrite(answer string) error {
	s.book.answers["overwrite"] = answer
	s.run()
	return nil
}

func (s *setupScenario) runWithOverwriteAndAnswers(answer string, table *godog.Table) error {
	s.book.answers["overwrite"] = answer
	s.record(table)
	s.run()
	if s.err != nil {
		return fmt.Errorf("setup failed: %w", s.err)
	}
	return nil
}

func (s *setupScenario) configFileExists() error {
	if s.err != nil {
		return fmt.Errorf("setup failed: %w", s.err)
	}
	if _, err := os.Stat(s.configPath); err != nil {
		return fmt.Errorf("no config file at %s: %w", s.configPath, err)
	}
	return nil
}

func (s *setupScenario) configHasSetting(key, expected string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	got, err := config.NewConfigManager(cfg, s.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, got)
	}
	return nil
}

func (s *setupScenario) setupFailedWith(message string) error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail")
	}
	if !strings.Contains(s.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, s.err.Error())
	}
	return nil
}

func (s *setupScenario) setupCancelled() error {
	if s.err != nil {
		return fmt.Errorf("setup failed: %w", s.err)
	}
	if len(s.book.asked) != 1 {
		return fmt.Errorf("expected only the overwrite prompt, got %q", s.book.asked)
	}
	return nil
}

func (s *setupScenario) configUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != string(s.existing) {
		return fmt.Errorf("config was rewritten:\n%s", content)
	}
	return nil
}
