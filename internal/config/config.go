package config

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "taskman.toml"
	DefaultTasksFile      = "tasks.txt"
	DefaultSQLiteFile     = "tasks.db"
	DefaultBackend        = "text"
	DefaultInterface      = "menu"
	DefaultLogLevel       = "warn"
)

// Keymap binds keys in the full-screen list view.
type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Edit    string `toml:"edit"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
}

type Config struct {
	TasksFile string `toml:"tasks_file,omitempty"`
	Backend   string `toml:"backend"`
	Interface string `toml:"interface"`
	LogLevel  string `toml:"log_level"`
	Keys      Keymap `toml:"keys"`
}

// ResolveConfigPath returns the config file in the working directory.
func ResolveConfigPath() string {
	return DefaultConfigFileName
}

// LoadOrCreate reads path, writing the defaults there first if it is absent.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		written := cfg
		written.TasksFile = ""
		if err := write(path, written); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	// tasks_file stays empty when absent so its default can follow the backend.
	cfg.TasksFile = ""
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if cfg.TasksFile == "" {
		cfg.TasksFile = defaultTasksFile(cfg.Backend)
	}
	if cfg.Interface == "" {
		cfg.Interface = DefaultInterface
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Backend {
	case "text", "sqlite":
	default:
		return fmt.Errorf("backend must be \"text\" or \"sqlite\", got %q", c.Backend)
	}
	switch c.Interface {
	case "menu", "tui":
	default:
		return fmt.Errorf("interface must be \"menu\" or \"tui\", got %q", c.Interface)
	}
	return nil
}

func defaultTasksFile(backend string) string {
	if backend == "sqlite" {
		return DefaultSQLiteFile
	}
	return DefaultTasksFile
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		TasksFile: DefaultTasksFile,
		Backend:   DefaultBackend,
		Interface: DefaultInterface,
		LogLevel:  DefaultLogLevel,
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Edit:    "e",
			Confirm: "enter",
			Cancel:  "esc",
		},
	}
}
