package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "jobbyist"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"

	ListingsFileName = "jobs.json"
	MetadataFileName = "job_metadata.json"
	UsersFileName    = "users.json"
)

// Config holds run defaults. Every field can be overridden per invocation by
// flags; the file just sets the baseline.
type Config struct {
	Locales       []string `json:"locales"`
	FilterTitle   string   `json:"filter_title"`
	FilterCompany string   `json:"filter_company"`
	FilterRemote  bool     `json:"filter_remote"`

	DataDir   string `json:"data_dir"`
	Retention int    `json:"retention"`
	DedupKey  string `json:"dedup_key"`

	ScheduleEvery string `json:"schedule_every"`
	ServeAddr     string `json:"serve_addr"`

	PublishRepo   string `json:"publish_repo"`
	PublishBranch string `json:"publish_branch"`
	PublishPath   string `json:"publish_path"`
}

func DefaultConfig() Config {
	return Config{
		Locales:       splitCSV(envString("JOBBYIST_LOCALES", "za,ng,ke,eg")),
		FilterTitle:   envString("JOBBYIST_FILTER_TITLE", ""),
		FilterCompany: envString("JOBBYIST_FILTER_COMPANY", ""),
		DataDir:       envString("JOBBYIST_DATA_DIR", "data"),
		Retention:     envInt("JOBBYIST_RETENTION", 100),
		DedupKey:      envString("JOBBYIST_DEDUP_KEY", "title-company"),
		ScheduleEvery: envString("JOBBYIST_SCHEDULE_EVERY", "6h"),
		ServeAddr:     envString("JOBBYIST_SERVE_ADDR", ":5000"),
		PublishRepo:   envString("JOBBYIST_PUBLISH_REPO", ""),
		PublishBranch: envString("JOBBYIST_PUBLISH_BRANCH", "gh-pages"),
		PublishPath:   envString("JOBBYIST_PUBLISH_PATH", "jobs.json"),
	}
}

// ListingsPath is where the merged listing set lives.
func (c Config) ListingsPath() string {
	return filepath.Join(c.DataDir, ListingsFileName)
}

// MetadataPath is the run metadata file next to the listings.
func (c Config) MetadataPath() string {
	return filepath.Join(c.DataDir, MetadataFileName)
}

// UsersPath is the profile store file.
func (c Config) UsersPath() string {
	return filepath.Join(c.DataDir, UsersFileName)
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadProxies resolves proxies from a flag value, the environment, or the
// proxies file, in that order.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("JOBBYIST_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
