package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spachava753/webmall-eval/internal/models"
)

// Environment variables that override study.yaml values.
const (
	EnvTaskSetPath        = "TASKSET_PATH"
	EnvResultsDir         = "RESULTS_DIR"
	EnvExcludedCategories = "EXCLUDED_CATEGORIES"
)

// DefaultStudyConfig returns a StudyConfig with default values.
func DefaultStudyConfig() models.StudyConfig {
	return models.StudyConfig{
		ResultsDir:         "study_results",
		ExcludedCategories: []string{"Add_To_Cart", "Checkout", "FindAndOrder"},
		CheckoutCategories: []string{"Checkout", "FindAndOrder"},
		MaxSteps:           50,
		LogLevel:           "info",
		Agent: models.AgentConfig{
			Name:    "agent",
			Runtime: models.RuntimeCommand,
		},
	}
}

// LoadDotEnv loads a .env file sitting next to the study file, if present.
// Variables already set in the process environment win.
func LoadDotEnv(studyPath string) error {
	envPath := filepath.Join(filepath.Dir(studyPath), ".env")
	if _, err := os.Stat(envPath); err != nil {
		return nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("loading %s: %w", envPath, err)
	}
	return nil
}

// LoadStudyConfig loads and parses a study.yaml file, then applies
// environment overrides and defaults.
func LoadStudyConfig(path string) (models.StudyConfig, error) {
	cfg := DefaultStudyConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading study config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing study config: %w", err)
	}

	ApplyEnv(&cfg, os.LookupEnv)

	// Relative sources are resolved against the study file location
	base := filepath.Dir(path)
	for i, src := range cfg.TaskSets {
		if src.Path != nil && *src.Path != "" && !filepath.IsAbs(*src.Path) {
			p := filepath.Join(base, *src.Path)
			cfg.TaskSets[i].Path = &p
		}
	}
	if cfg.SitesPath != "" && !filepath.IsAbs(cfg.SitesPath) {
		cfg.SitesPath = filepath.Join(base, cfg.SitesPath)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	// Apply defaults for missing values
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = "study_results"
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 50
	}
	if cfg.Agent.Name == "" {
		cfg.Agent.Name = "agent"
	}
	if cfg.Agent.Runtime == "" {
		cfg.Agent.Runtime = models.RuntimeCommand
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// ApplyEnv overrides config values from the environment.
func ApplyEnv(cfg *models.StudyConfig, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvTaskSetPath); ok && v != "" {
		cfg.TaskSets = []models.TaskSetSource{{Path: &v}}
	}
	if v, ok := lookup(EnvResultsDir); ok && v != "" {
		cfg.ResultsDir = v
	}
	if v, ok := lookup(EnvExcludedCategories); ok {
		cfg.ExcludedCategories = SplitList(v)
	}
}

// Validate checks a study config for structural errors.
func Validate(cfg models.StudyConfig) error {
	if len(cfg.TaskSets) == 0 {
		return fmt.Errorf("no task_sets configured")
	}
	for i, src := range cfg.TaskSets {
		hasPath := src.Path != nil && *src.Path != ""
		hasURL := src.URL != nil && *src.URL != ""
		if !hasPath && !hasURL {
			return fmt.Errorf("task_sets[%d]: must specify either 'path' or 'url'", i)
		}
		if hasPath && hasURL {
			return fmt.Errorf("task_sets[%d]: cannot specify both 'path' and 'url'", i)
		}
	}

	switch cfg.Agent.Runtime {
	case "", models.RuntimeCommand:
		if cfg.Agent.Command == "" {
			return fmt.Errorf("agent: 'command' is required")
		}
	case models.RuntimeCompose:
		if cfg.Agent.Service == "" {
			return fmt.Errorf("agent: 'service' is required for compose runtime")
		}
		if cfg.Agent.Command == "" {
			return fmt.Errorf("agent: 'command' is required")
		}
	case models.RuntimeDocker:
		if cfg.Agent.Container == "" {
			return fmt.Errorf("agent: 'container' is required for docker runtime")
		}
		if cfg.Agent.Command == "" {
			return fmt.Errorf("agent: 'command' is required")
		}
	default:
		return fmt.Errorf("agent: unsupported runtime %q", cfg.Agent.Runtime)
	}

	return nil
}

// SplitList splits a comma separated list, dropping empty items.
func SplitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
