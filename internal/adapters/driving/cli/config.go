package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/printdrop/internal/adapters/driven/config/file"
	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driven"
	"github.com/custodia-labs/printdrop/internal/logger"
)

// Configuration keys read from config.toml.
const (
	keyListenHost     = "listen.host"
	keyListenPort     = "listen.port"
	keyStorageDir     = "storage.dir"
	keyJournalEnabled = "journal.enabled"
	keyJournalDir     = "journal.dir"
	keyNotifyCommand  = "notify.command"
	keyLogVerbose     = "log.verbose"
)

// settings is the effective configuration after merging flags, the config
// file and defaults, in that order of precedence.
type settings struct {
	Host           string
	Port           int
	DocumentDir    string
	ConfigDir      string
	ConfigFile     string
	JournalEnabled bool
	JournalDir     string
	NotifyCommand  string
	Verbose        bool

	// source is the file the settings were read from.
	source *file.ConfigStore
}

// openConfigStore opens config.toml in the --config directory.
func openConfigStore() (*file.ConfigStore, string, error) {
	configDir := configDirFlag
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, "", fmt.Errorf("locating config directory: %w", err)
		}
		configDir = dir
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return store, configDir, nil
}

// loadSettings reads the config file and merges it with the parsed flags.
func loadSettings(flags *pflag.FlagSet) (settings, error) {
	store, configDir, err := openConfigStore()
	if err != nil {
		return settings{}, err
	}

	s, err := resolveSettings(flags, store, configDir)
	if err != nil {
		return settings{}, fmt.Errorf("%s: %w", store.Path(), err)
	}
	s.ConfigFile = store.Path()
	s.source = store
	logger.SetVerbose(s.Verbose)
	logger.Debug("config loaded from %s", store.Path())
	return s, nil
}

// resolveSettings applies flag > config > default precedence. A key that
// is present with the wrong type is an error wrapping domain.ErrInvalidInput.
func resolveSettings(flags *pflag.FlagSet, cfg driven.ConfigStore, configDir string) (settings, error) {
	s := settings{
		Port:           portFlag,
		DocumentDir:    dirFlag,
		ConfigDir:      configDir,
		JournalEnabled: true,
		JournalDir:     filepath.Join(configDir, "data"),
	}

	var err error
	if s.Host, _, err = configString(cfg, keyListenHost); err != nil {
		return settings{}, err
	}
	if !flags.Changed("port") {
		port, ok, err := configPort(cfg)
		if err != nil {
			return settings{}, err
		}
		if ok {
			s.Port = port
		}
	}
	if !flags.Changed("dir") {
		dir, _, err := configString(cfg, keyStorageDir)
		if err != nil {
			return settings{}, err
		}
		if dir != "" {
			s.DocumentDir = dir
		}
	}
	if enabled, ok, err := configBool(cfg, keyJournalEnabled); err != nil {
		return settings{}, err
	} else if ok {
		s.JournalEnabled = enabled
	}
	if dir, _, err := configString(cfg, keyJournalDir); err != nil {
		return settings{}, err
	} else if dir != "" {
		s.JournalDir = dir
	}
	if s.NotifyCommand, _, err = configString(cfg, keyNotifyCommand); err != nil {
		return settings{}, err
	}
	verbose, _, err := configBool(cfg, keyLogVerbose)
	if err != nil {
		return settings{}, err
	}
	s.Verbose = verboseFlag || verbose

	return s, nil
}

// configPort reads listen.port. ok is false when the key is absent.
func configPort(cfg driven.ConfigStore) (port int, ok bool, err error) {
	raw, ok := cfg.Get(keyListenPort)
	if !ok {
		return 0, false, nil
	}
	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	default:
		return 0, true, fmt.Errorf("%w: %s must be a port number, got %v", domain.ErrInvalidInput, keyListenPort, raw)
	}
	if n < 0 || n > 65535 {
		return 0, true, fmt.Errorf("%w: %s must be a port number, got %d", domain.ErrInvalidInput, keyListenPort, n)
	}
	return int(n), true, nil
}

// configBool reads a boolean key. ok is false when the key is absent.
func configBool(cfg driven.ConfigStore, key string) (value, ok bool, err error) {
	raw, ok := cfg.Get(key)
	if !ok {
		return false, false, nil
	}
	b, isBool := raw.(bool)
	if !isBool {
		return false, true, fmt.Errorf("%w: %s must be true or false, got %v", domain.ErrInvalidInput, key, raw)
	}
	return b, true, nil
}

// configString reads a string key. ok is false when the key is absent.
func configString(cfg driven.ConfigStore, key string) (value string, ok bool, err error) {
	raw, ok := cfg.Get(key)
	if !ok {
		return "", false, nil
	}
	str, isString := raw.(string)
	if !isString {
		return "", true, fmt.Errorf("%w: %s must be a string, got %v", domain.ErrInvalidInput, key, raw)
	}
	return str, true, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show the effective configuration or change a value in config.toml.

Keys:
  listen.host      address to bind, empty for every interface
  listen.port      TCP port to listen on
  storage.dir      directory to write documents into
  journal.enabled  record every job in the import journal (true/false)
  journal.dir      directory holding imports.db
  notify.command   command run after each import, e.g. "systemctl restart xochitl"
  log.verbose      enable debug logging (true/false)

Command line flags take precedence over the file.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd.Flags())
	if err != nil {
		return err
	}

	journal := "disabled"
	if s.JournalEnabled {
		journal = filepath.Join(s.JournalDir, "imports.db")
	}
	notifyCmd := s.NotifyCommand
	if notifyCmd == "" {
		notifyCmd = "(none)"
	}

	host := s.Host
	if host == "" {
		host = "(all interfaces)"
	}

	cmd.Printf("Config file:   %s\n", s.ConfigFile)
	cmd.Printf("Host:          %s\n", host)
	cmd.Printf("Port:          %d\n", s.Port)
	cmd.Printf("Document dir:  %s\n", s.DocumentDir)
	cmd.Printf("Journal:       %s\n", journal)
	cmd.Printf("Notify:        %s\n", notifyCmd)
	cmd.Printf("Verbose:       %t\n", s.Verbose)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	value, err := parseConfigValue(key, raw)
	if err != nil {
		return err
	}

	store, _, err := openConfigStore()
	if err != nil {
		return err
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	cmd.Printf("%s = %v\n", key, value)
	return nil
}

// parseConfigValue converts raw to the type stored under key.
func parseConfigValue(key, raw string) (any, error) {
	switch key {
	case keyListenPort:
		port, err := strconv.Atoi(raw)
		if err != nil || port < 0 || port > 65535 {
			return nil, fmt.Errorf("%w: %s must be a port number, got %q", domain.ErrInvalidInput, key, raw)
		}
		return port, nil
	case keyJournalEnabled, keyLogVerbose:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false, got %q", domain.ErrInvalidInput, key, raw)
		}
		return b, nil
	case keyListenHost, keyStorageDir, keyJournalDir, keyNotifyCommand:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
}
