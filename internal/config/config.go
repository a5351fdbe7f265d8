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
)

const (
	KeySourcePath   = "source.path"
	KeySourceFormat = "source.format"

	KeyEmployeeCount      = "chart.employee-count"
	KeyView               = "chart.view"
	KeyHighAuthorityRoles = "chart.high-authority-roles"
	KeyWatch              = "chart.watch"

	KeyOutputFormat = "output.format"
	KeyDebug        = "debug"
)

const (
	// DefaultEmployeeCount matches the chart's out-of-the-box slider value.
	DefaultEmployeeCount = 6
	envPrefix            = "OC"
	configDirName        = ".orgchart"
	configFileName       = "config.yaml"
)

var defaults = map[string]any{
	KeySourcePath:    "",
	KeySourceFormat:  "auto",
	KeyEmployeeCount: DefaultEmployeeCount,
	KeyView:          "",
	KeyWatch:         true,
	KeyOutputFormat:  "tui",
	KeyDebug:         false,
}

type initSettings struct {
	workingDir     string
	userConfigPath string
}

// Option configures Initialize. Tests use it to pin the lookup paths.
type Option func(*initSettings)

// WithWorkingDir sets where the search for .orgchart/config.yaml starts.
func WithWorkingDir(dir string) Option {
	return func(cfg *initSettings) {
		cfg.workingDir = dir
	}
}

// WithUserConfig replaces ~/.orgchart/config.yaml.
func WithUserConfig(path string) Option {
	return func(cfg *initSettings) {
		cfg.userConfigPath = path
	}
}

var (
	configOnce sync.Once
	configMu   sync.RWMutex
	configInst *viper.Viper
	initErr    error
)

var errNotInitialized = errors.New("configuration not initialized")

// Initialize builds the configuration once. Later layers win:
// defaults, user file, nearest project file, OC_* environment, overrides.
func Initialize(opts ...Option) error {
	configOnce.Do(func() {
		var settings initSettings
		for _, opt := range opts {
			opt(&settings)
		}
		v, err := load(settings)
		if err != nil {
			initErr = err
			return
		}
		configMu.Lock()
		configInst = v
		configMu.Unlock()
	})
	return initErr
}

// ApplyOverrides sets values that beat every other layer, typically flags
// the user passed explicitly.
func ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	if err := Initialize(); err != nil {
		return err
	}
	configMu.Lock()
	defer configMu.Unlock()
	if configInst == nil {
		return errNotInitialized
	}
	for key, value := range overrides {
		configInst.Set(key, value)
	}
	return nil
}

// Set overrides a single key.
func Set(key string, value any) error {
	return ApplyOverrides(map[string]any{key: value})
}

func GetString(key string) string { return lookup(key, (*viper.Viper).GetString) }

func GetBool(key string) bool { return lookup(key, (*viper.Viper).GetBool) }

func GetInt(key string) int { return lookup(key, (*viper.Viper).GetInt) }

// GetStringSlice reads a list. Items holding commas, as environment values
// do, are split and blanks dropped.
func GetStringSlice(key string) []string {
	var out []string
	for _, item := range lookup(key, (*viper.Viper).GetStringSlice) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// HighAuthorityRoles returns the configured role substrings, or nil when
// none are set so the chart keeps its built-in list.
func HighAuthorityRoles() []string {
	return GetStringSlice(KeyHighAuthorityRoles)
}

// lookup reads key with get, yielding the zero value when configuration
// failed to load.
func lookup[T any](key string, get func(*viper.Viper, string) T) T {
	if err := Initialize(); err != nil {
		var zero T
		return zero
	}
	configMu.RLock()
	defer configMu.RUnlock()
	if configInst == nil {
		var zero T
		return zero
	}
	return get(configInst, key)
}

func load(settings initSettings) (*viper.Viper, error) {
	files, err := configFiles(settings)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, path := range files {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return v, nil
}

// configFiles lists the files to merge, lowest precedence first. Missing
// files are skipped; a directory in place of a file is an error.
func configFiles(settings initSettings) ([]string, error) {
	userPath := strings.TrimSpace(settings.userConfigPath)
	if userPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("determine user home: %w", err)
		}
		userPath = filepath.Join(home, configDirName, configFileName)
	}

	startDir := strings.TrimSpace(settings.workingDir)
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		startDir = wd
	}

	var files []string
	ok, err := isConfigFile(userPath)
	if err != nil {
		return nil, err
	}
	if ok {
		files = append(files, userPath)
	}
	for dir := startDir; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, configDirName, configFileName)
		ok, err := isConfigFile(candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, candidate)
			break
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}
	return files, nil
}

func isConfigFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", path, err)
	case info.IsDir():
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	return true, nil
}

// reset clears package state for tests.
func reset() {
	configMu.Lock()
	defer configMu.Unlock()
	configInst = nil
	initErr = nil
	configOnce = sync.Once{}
}

// ResetForTesting points configuration at an empty temp directory for tests
// in other packages and returns the cleanup.
func ResetForTesting(t interface{ TempDir() string }) func() {
	reset()
	tmp := t.TempDir()
	_ = Initialize(WithWorkingDir(tmp), WithUserConfig(filepath.Join(tmp, "user.yaml")))
	return reset
}
