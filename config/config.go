package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Simulation configuration
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Market configuration
	Market MarketConfig `json:"market" yaml:"market"`

	// Hiring pipeline configuration
	Hiring HiringConfig `json:"hiring" yaml:"hiring"`

	// Wall-clock day scheduling
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`

	// Save file and history database
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Server configuration
	Server ServerConfig `json:"server" yaml:"server"`
}

// EngineConfig holds the starting balance sheet and game length
type EngineConfig struct {
	// Opening bank balance
	StartingBalance int64 `json:"starting_balance" yaml:"starting_balance"`

	// Monthly salary from the main job
	MainIncome int64 `json:"main_income" yaml:"main_income"`

	// Monthly passive income
	SideIncome int64 `json:"side_income" yaml:"side_income"`

	// Monthly living expenses
	MonthlyExpenses int64 `json:"monthly_expenses" yaml:"monthly_expenses"`

	// Game ends after this many simulated years (0 disables)
	MaxYears int `json:"max_years" yaml:"max_years"`

	// Random seed (0 seeds from the clock)
	Seed int64 `json:"seed" yaml:"seed"`

	// Minimum days between scripted scenarios
	ScenarioCooldownDays int `json:"scenario_cooldown_days" yaml:"scenario_cooldown_days"`

	// Probability of a scenario once the cooldown has passed (0-100)
	ScenarioChance int `json:"scenario_chance" yaml:"scenario_chance"`
}

// MarketConfig holds market data settings
type MarketConfig struct {
	// Directory holding instruments.yaml and roles.yaml
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// HiringConfig holds hiring pipeline settings
type HiringConfig struct {
	// Maximum applicants kept in the pool
	PoolSize int `json:"pool_size" yaml:"pool_size"`

	// Hire automatically when an interview clears the applicant's threshold
	AutoHire bool `json:"auto_hire" yaml:"auto_hire"`
}

// SchedulerConfig holds the wall-clock cadence of simulated days
type SchedulerConfig struct {
	// Advance days automatically
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Cron spec for one simulated day
	DayCron string `json:"day_cron" yaml:"day_cron"`

	// Save after this many automatic days (0 disables)
	AutosaveEveryDays int `json:"autosave_every_days" yaml:"autosave_every_days"`
}

// StorageConfig holds persistence paths
type StorageConfig struct {
	// Path of the JSON save document
	SavePath string `json:"save_path" yaml:"save_path"`

	// Path of the SQLite history database (empty disables history)
	HistoryPath string `json:"history_path" yaml:"history_path"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port" yaml:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			StartingBalance:      500000,
			MainIncome:           75000,
			SideIncome:           15000,
			MonthlyExpenses:      45000,
			MaxYears:             5,
			Seed:                 0,
			ScenarioCooldownDays: 3,
			ScenarioChance:       50,
		},
		Market: MarketConfig{
			DataDir: "./assets/data",
		},
		Hiring: HiringConfig{
			PoolSize: 5,
			AutoHire: true,
		},
		Scheduler: SchedulerConfig{
			Enabled:           true,
			DayCron:           "@every 150s",
			AutosaveEveryDays: 7,
		},
		Storage: StorageConfig{
			SavePath:    "./data/game_state.json",
			HistoryPath: "./data/history.db",
		},
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from a file, writing the defaults there
// first if it does not exist. Files ending in .yaml or .yml are YAML.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		applyEnv(&config)
		return config, config.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, &config)
	} else {
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(&config)
	return config, config.Validate()
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that values are usable
func (c Config) Validate() error {
	if c.Engine.StartingBalance < 0 {
		return fmt.Errorf("engine.starting_balance must not be negative")
	}
	if c.Engine.MainIncome < 0 || c.Engine.SideIncome < 0 || c.Engine.MonthlyExpenses < 0 {
		return fmt.Errorf("engine income and expenses must not be negative")
	}
	if c.Engine.MaxYears < 0 {
		return fmt.Errorf("engine.max_years must not be negative")
	}
	if c.Engine.ScenarioChance < 0 || c.Engine.ScenarioChance > 100 {
		return fmt.Errorf("engine.scenario_chance must be between 0 and 100")
	}
	if c.Hiring.PoolSize <= 0 {
		return fmt.Errorf("hiring.pool_size must be positive")
	}
	if c.Scheduler.Enabled && c.Scheduler.DayCron == "" {
		return fmt.Errorf("scheduler.day_cron is required when the scheduler is enabled")
	}
	if c.Storage.SavePath == "" {
		return fmt.Errorf("storage.save_path is required")
	}
	return nil
}

// applyEnv overrides file values with WEALTH_* environment variables
func applyEnv(c *Config) {
	if v := os.Getenv("WEALTH_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("WEALTH_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("WEALTH_SAVE_PATH"); v != "" {
		c.Storage.SavePath = v
	}
	if v := os.Getenv("WEALTH_HISTORY_PATH"); v != "" {
		c.Storage.HistoryPath = v
	}
	if v := os.Getenv("WEALTH_DAY_CRON"); v != "" {
		c.Scheduler.DayCron = v
	}
	if v := os.Getenv("WEALTH_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Engine.Seed = seed
		}
	}
	if v := os.Getenv("WEALTH_SCHEDULER_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Scheduler.Enabled = enabled
		}
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
