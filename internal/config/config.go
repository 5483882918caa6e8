// Package config manages patchvis settings and remembered preferences.
//
// Each Config owns its own viper instance; there is no package-level state, so callers pass the
// Config they loaded to whatever needs it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"patch_visualizer/internal/diffcore"
	"patch_visualizer/internal/logging"
	"patch_visualizer/internal/render"
)

const (
	appName = "patchvis"

	// DefaultMaxFileSize is the largest document read for comparison (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
	// DefaultMaxPatchSize is the largest patch read before sanitizing (256MB). Patches may carry
	// long binary sections that only the sanitizer cuts down.
	DefaultMaxPatchSize = 256 * 1024 * 1024

	OutputSideBySide = render.FormatSideBySide
	OutputLineByLine = render.FormatLineByLine
)

// supportedLanguages are the UI languages with translations; the first one is the fallback.
var supportedLanguages = []language.Tag{language.English, language.Chinese, language.Japanese}

var languageMatcher = language.NewMatcher(supportedLanguages)

// Settings is the decoded configuration.
type Settings struct {
	Engine       string `mapstructure:"engine"`
	MaxFileSize  int64  `mapstructure:"max_file_size"`
	MaxPatchSize int64  `mapstructure:"max_patch_size"`
	MinifyHTML   bool   `mapstructure:"minify_html"`
	AssetsDir    string `mapstructure:"assets_dir"`
	OutputFormat string `mapstructure:"output_format"`
	LogLevel     string `mapstructure:"log_level"`
	Language     string `mapstructure:"language"`
	Workers      int    `mapstructure:"workers"`

	LastImportDir   string `mapstructure:"last_import_dir"`
	LastOriginalDir string `mapstructure:"last_original_dir"`
	LastRevisedDir  string `mapstructure:"last_revised_dir"`
}

// Config is a loaded configuration file together with its remembered preferences. The Remember
// methods and Save may be called from concurrent goroutines.
type Config struct {
	Settings

	mu   sync.Mutex
	path string
	v    *viper.Viper
}

// DefaultPath returns $XDG_CONFIG_HOME/patchvis/config.json or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appName, "config.json"), nil
}

// Load reads the JSON configuration at path. A missing file is not an error; defaults and
// PATCHVIS_* environment variables apply either way. An empty path selects DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.AutomaticEnv()
	setDefaults(v)

	if err := readConfig(v.ReadInConfig()); err != nil {
		return nil, err
	}

	cfg := &Config{path: path, v: v}
	if err := v.Unmarshal(&cfg.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns a configuration holding only defaults, not backed by any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{v: v}
	// Defaults always decode.
	_ = v.Unmarshal(&cfg.Settings)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", string(diffcore.DefaultEngine))
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("max_patch_size", DefaultMaxPatchSize)
	v.SetDefault("minify_html", false)
	v.SetDefault("assets_dir", "")
	v.SetDefault("output_format", OutputSideBySide)
	v.SetDefault("log_level", "info")
	v.SetDefault("language", "en")
	v.SetDefault("workers", 4)
	v.SetDefault("last_import_dir", "")
	v.SetDefault("last_original_dir", "")
	v.SetDefault("last_revised_dir", "")
}

// readConfig handles the result of reading a configuration file.
func readConfig(err error) error {
	if err == nil {
		return nil
	}

	// It's okay if the config file doesn't exist
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// Validate checks every setting that has a closed set of values.
func (c *Config) Validate() error {
	if _, err := diffcore.ParseEngine(c.Engine); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	if c.MaxPatchSize <= 0 {
		return fmt.Errorf("max_patch_size must be positive, got %d", c.MaxPatchSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.OutputFormat {
	case OutputSideBySide, OutputLineByLine:
	default:
		return fmt.Errorf("unknown output_format %q", c.OutputFormat)
	}
	if _, err := language.Parse(c.Language); err != nil {
		return fmt.Errorf("invalid language %q: %w", c.Language, err)
	}
	return nil
}

// Path returns the file the configuration is read from and saved to.
func (c *Config) Path() string {
	return c.path
}

// DiffEngine returns the configured diff engine.
func (c *Config) DiffEngine() diffcore.Engine {
	engine, err := diffcore.ParseEngine(c.Engine)
	if err != nil {
		return diffcore.DefaultEngine
	}
	return engine
}

// Locale returns the closest supported UI language for the configured language tag.
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return supportedLanguages[0]
	}
	_, index, _ := languageMatcher.Match(tag)
	return supportedLanguages[index]
}

// RememberImportDir records the directory of the last imported patch. A file path records its
// parent directory.
func (c *Config) RememberImportDir(path string) {
	dir := directoryOf(path)
	c.mu.Lock()
	c.LastImportDir = dir
	c.mu.Unlock()
}

// RememberOriginalDir records the directory of the last original document.
func (c *Config) RememberOriginalDir(path string) {
	dir := directoryOf(path)
	c.mu.Lock()
	c.LastOriginalDir = dir
	c.mu.Unlock()
}

// RememberRevisedDir records the directory of the last revised document.
func (c *Config) RememberRevisedDir(path string) {
	dir := directoryOf(path)
	c.mu.Lock()
	c.LastRevisedDir = dir
	c.mu.Unlock()
}

func directoryOf(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return abs
	}
	return filepath.Dir(abs)
}

// Save writes the current settings to Path, creating its directory when needed.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.v.Set("engine", c.Engine)
	c.v.Set("max_file_size", c.MaxFileSize)
	c.v.Set("max_patch_size", c.MaxPatchSize)
	c.v.Set("minify_html", c.MinifyHTML)
	c.v.Set("assets_dir", c.AssetsDir)
	c.v.Set("output_format", c.OutputFormat)
	c.v.Set("log_level", c.LogLevel)
	c.v.Set("language", c.Language)
	c.v.Set("workers", c.Workers)
	c.v.Set("last_import_dir", c.LastImportDir)
	c.v.Set("last_original_dir", c.LastOriginalDir)
	c.v.Set("last_revised_dir", c.LastRevisedDir)

	const configDirPermission = 0o755
	if err := os.MkdirAll(filepath.Dir(c.path), configDirPermission); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", c.path, err)
	}
	return nil
}
