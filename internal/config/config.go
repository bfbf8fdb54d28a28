package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"todomatic/internal/remote"
	"todomatic/internal/tasks"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultJournalName    = "diagnostics.db"
	DefaultOwnerName      = "Лилиана Калинникова"
	DefaultRequestTimeout = 10 * time.Second

	appDirName = "todomatic"
	envConfig  = "TODOMATIC_CONFIG"
)

type Keymap struct {
	Quit            string `toml:"quit"`
	Add             string `toml:"add"`
	Up              string `toml:"up"`
	Down            string `toml:"down"`
	Toggle          string `toml:"toggle"`
	Delete          string `toml:"delete"`
	Detail          string `toml:"detail"`
	Confirm         string `toml:"confirm"`
	Cancel          string `toml:"cancel"`
	Edit            string `toml:"edit"`
	FilterAll       string `toml:"filter_all"`
	FilterActive    string `toml:"filter_active"`
	FilterCompleted string `toml:"filter_completed"`
	FilterCycle     string `toml:"filter_cycle"`
	NextUser        string `toml:"next_user"`
	PrevUser        string `toml:"prev_user"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	TasksURL       string   `toml:"tasks_url"`
	UsersURL       string   `toml:"users_url"`
	RequestTimeout Duration `toml:"request_timeout"`
	OwnerName      string   `toml:"owner_name"`
	DefaultFilter  string   `toml:"default_filter"`
	JournalPath    string   `toml:"journal_path"`
	Keys           Keymap   `toml:"keys"`
}

// ResolveConfigPath picks $TODOMATIC_CONFIG, then the user config dir,
// then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(envConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist yet. Missing keys keep their defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.OwnerName == "" {
		cfg.OwnerName = DefaultOwnerName
	}
	if cfg.RequestTimeout.Duration == 0 {
		cfg.RequestTimeout.Duration = DefaultRequestTimeout
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values the rest of the program relies on.
func (c Config) Validate() error {
	for name, raw := range map[string]string{"tasks_url": c.TasksURL, "users_url": c.UsersURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: want an http or https URL, got %q", name, raw)
		}
	}
	if c.RequestTimeout.Duration <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if _, err := tasks.ParseCompletion(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	return nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// defaultConfig keeps the journal next to the config file.
func defaultConfig(path string) Config {
	return Config{
		TasksURL:       remote.DefaultTasksURL,
		UsersURL:       remote.DefaultUsersURL,
		RequestTimeout: Duration{DefaultRequestTimeout},
		OwnerName:      DefaultOwnerName,
		DefaultFilter:  string(tasks.CompletionAll),
		JournalPath:    filepath.Join(filepath.Dir(path), DefaultJournalName),
		Keys: Keymap{
			Quit:            "q",
			Add:             "a",
			Up:              "k",
			Down:            "j",
			Toggle:          " ",
			Delete:          "d",
			Detail:          "i",
			Confirm:         "enter",
			Cancel:          "esc",
			Edit:            "e",
			FilterAll:       "1",
			FilterActive:    "2",
			FilterCompleted: "3",
			FilterCycle:     "f",
			NextUser:        "u",
			PrevUser:        "U",
		},
	}
}
