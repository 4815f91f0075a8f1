package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"scantree/internal/analysis"
)

type Config struct {
	Project struct {
		Key        string `yaml:"key"`
		Branch     string `yaml:"branch"`
		MainBranch string `yaml:"main_branch"`
	} `yaml:"project"`
	Scm struct {
		BasePath string `yaml:"base_path"`
	} `yaml:"scm"`
	Storage struct {
		DB string `yaml:"db"`
	} `yaml:"storage"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Project.Branch = "main"
	cfg.Project.MainBranch = "main"
	cfg.Storage.DB = "scantree.db"
	return cfg
}

// LoadConfig reads the YAML config, falling back to defaults when the file
// does not exist. Environment variables (optionally from a .env file)
// override file values.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := DefaultConfig()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}

	// 3. Override with environment variables if present
	if db := os.Getenv("SCANTREE_DB"); db != "" {
		cfg.Storage.DB = db
	}
	if branch := os.Getenv("SCANTREE_BRANCH"); branch != "" {
		cfg.Project.Branch = branch
	}
	if key := os.Getenv("SCANTREE_PROJECT_KEY"); key != "" {
		cfg.Project.Key = key
	}

	if cfg.Project.Branch == "" {
		cfg.Project.Branch = cfg.Project.MainBranch
	}

	return cfg, nil
}

// Branch derives the analysis branch from the configured branch names.
func (c *Config) Branch() analysis.Branch {
	return analysis.Branch{
		Name: c.Project.Branch,
		Main: c.Project.Branch == c.Project.MainBranch,
	}
}
