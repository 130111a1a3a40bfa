// Package config reads the YAML configuration shared by the stemsearch binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xkmsoft/stemsearch/pkg/engine"
	"github.com/xkmsoft/stemsearch/pkg/lancaster"
	"github.com/xkmsoft/stemsearch/pkg/store"
	"github.com/xkmsoft/stemsearch/pkg/tcpserver"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix  = "STEMSEARCH_"
	PathEnv    = EnvPrefix + "CONFIG"
	DefaultEnv = ".env"
)

const (
	StorageJSON   = "json"
	StorageBadger = "badger"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
}

type AnalyzerConfig struct {
	Algorithm       string   `yaml:"algorithm"`
	RulesFile       string   `yaml:"rulesFile"`
	Rules           []string `yaml:"rules"`
	StripPrefix     bool     `yaml:"stripPrefix"`
	TrueLastLetter  bool     `yaml:"trueLastLetter"`
	MaxRounds       int      `yaml:"maxRounds"`
	StopWords       []string `yaml:"stopWords"`
	KeepStopWords   bool     `yaml:"keepStopWords"`
	KeepApostrophes bool     `yaml:"keepApostrophes"`
	Fold            *bool    `yaml:"fold"`
}

type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	Network       string `yaml:"network"`
	DataDirectory string `yaml:"dataDirectory"`
	Index         int    `yaml:"index"`
	Clean         bool   `yaml:"clean"`
}

type APIConfig struct {
	Port int `yaml:"port"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

func Default() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{Algorithm: engine.Lancaster},
		Server: ServerConfig{
			Host:          "localhost",
			Port:          "3333",
			Network:       "tcp",
			DataDirectory: tcpserver.DataDirectory,
			Index:         1,
		},
		API:     APIConfig{Port: 3000},
		Storage: StorageConfig{Backend: StorageJSON},
	}
}

// LoadEnv loads .env files into the process environment without overriding variables that
// are already set. A missing default .env file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnv); os.IsNotExist(err) {
			return nil
		}
		files = []string{DefaultEnv}
	}
	return godotenv.Load(files...)
}

// Load starts from Default, applies the YAML file at path (or $STEMSEARCH_CONFIG when path
// is empty), then the STEMSEARCH_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		yml, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read configuration file: %w", err)
		}
		if err := yaml.Unmarshal(yml, cfg); err != nil {
			return nil, fmt.Errorf("parse configuration file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from STEMSEARCH_* variables.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"ALGORITHM":      &c.Analyzer.Algorithm,
		"RULES_FILE":     &c.Analyzer.RulesFile,
		"HOST":           &c.Server.Host,
		"PORT":           &c.Server.Port,
		"NETWORK":        &c.Server.Network,
		"DATA_DIRECTORY": &c.Server.DataDirectory,
		"STORAGE":        &c.Storage.Backend,
		"STORAGE_PATH":   &c.Storage.Path,
	}
	for name, field := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*field = v
		}
	}

	bools := map[string]*bool{
		"STRIP_PREFIX":     &c.Analyzer.StripPrefix,
		"TRUE_LAST_LETTER": &c.Analyzer.TrueLastLetter,
		"KEEP_APOSTROPHES": &c.Analyzer.KeepApostrophes,
		"CLEAN":            &c.Server.Clean,
	}
	for name, field := range bools {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s: %s", ErrInvalidConfig, EnvPrefix, name, err.Error())
			}
			*field = b
		}
	}

	ints := map[string]*int{
		"MAX_ROUNDS": &c.Analyzer.MaxRounds,
		"INDEX":      &c.Server.Index,
		"API_PORT":   &c.API.Port,
	}
	for name, field := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s: %s", ErrInvalidConfig, EnvPrefix, name, err.Error())
			}
			*field = n
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "STOP_WORDS"); ok {
		c.Analyzer.StopWords = strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
	}
	return nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Analyzer.Algorithm) {
	case "", engine.Lancaster, engine.Snowball, engine.Porter:
	default:
		return fmt.Errorf("%w: algorithm %q should be one of [%s, %s, %s]", ErrInvalidConfig,
			c.Analyzer.Algorithm, engine.Lancaster, engine.Snowball, engine.Porter)
	}
	if c.Analyzer.RulesFile != "" && len(c.Analyzer.Rules) > 0 {
		return fmt.Errorf("%w: rules and rulesFile are mutually exclusive", ErrInvalidConfig)
	}
	if c.Analyzer.MaxRounds < 0 {
		return fmt.Errorf("%w: maxRounds should not be negative", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Server.Network) {
	case "tcp", "tcp4", "tcp6":
	default:
		return fmt.Errorf("%w: network %q should be [tcp, tcp4, tcp6]", ErrInvalidConfig, c.Server.Network)
	}
	if c.Server.Index < 0 || c.Server.Index >= tcpserver.AbstractFilesCount {
		return fmt.Errorf("%w: index %d should be [0, %d]", ErrInvalidConfig, c.Server.Index, tcpserver.AbstractFilesCount-1)
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("%w: api port %d", ErrInvalidConfig, c.API.Port)
	}

	switch c.Storage.Backend {
	case "", StorageJSON:
	case StorageBadger:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: the badger storage needs a path", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: storage %q should be [%s, %s]", ErrInvalidConfig, c.Storage.Backend, StorageJSON, StorageBadger)
	}
	return nil
}

// LoadRules returns the configured rule table, or nil for the built-in one. A table that is
// configured but empty is an error.
func (a AnalyzerConfig) LoadRules() ([]string, error) {
	if a.RulesFile == "" {
		if a.Rules != nil && len(a.Rules) == 0 {
			return nil, fmt.Errorf("%w: rules: %w", ErrInvalidConfig, lancaster.ErrEmptyTable)
		}
		return a.Rules, nil
	}
	f, err := os.Open(a.RulesFile)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			fmt.Printf("Error closing rules file: %s\n", err.Error())
		}
	}(f)

	rules, err := lancaster.LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.RulesFile, err)
	}
	return rules, nil
}

func (a AnalyzerConfig) Build() (*engine.Analyzer, error) {
	rules, err := a.LoadRules()
	if err != nil {
		return nil, err
	}
	stemmer, err := engine.NewStemmer(strings.ToLower(a.Algorithm), lancaster.Config{
		Rules:          rules,
		StripPrefix:    a.StripPrefix,
		TrueLastLetter: a.TrueLastLetter,
		MaxRounds:      a.MaxRounds,
	})
	if err != nil {
		return nil, err
	}

	analyzer := engine.NewAnalyzer(stemmer)
	analyzer.Filterer = engine.NewFilterer(a.StopWords...)
	analyzer.KeepStopWords = a.KeepStopWords
	analyzer.Tokenizer.KeepApostrophes = a.KeepApostrophes
	if a.Fold != nil {
		analyzer.Fold = *a.Fold
	}
	return analyzer, nil
}

// Open returns the badger store, or nil when indexes are kept in JSON dumps.
func (s StorageConfig) Open() (*store.BadgerStore, error) {
	if s.Backend != StorageBadger {
		return nil, nil
	}
	return store.Open(s.Path)
}
