package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix                   = "CONTESTHUB"
	defaultHTTPAddress          = "0.0.0.0:8080"
	defaultDatabasePath         = "contesthub.db"
	defaultLogLevel             = "info"
	defaultFetchIntervalMinutes = 30
	defaultFetchTimeoutSeconds  = 20
	defaultCodeforcesAPIURL     = "https://codeforces.com/api"
	defaultCodechefAPIURL       = "https://www.codechef.com"
	defaultLeetcodeAPIURL       = "https://leetcode.com"
	defaultYoutubeAPIURL        = "https://www.googleapis.com/youtube/v3"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress      string
	DatabasePath     string
	LogLevel         string
	AdminToken       string
	FetchInterval    time.Duration
	FetchTimeout     time.Duration
	CodeforcesAPIURL string
	CodechefAPIURL   string
	LeetcodeAPIURL   string
	YoutubeAPIURL    string
	YoutubeAPIKey    string
	// YoutubePlaylists maps a platform name to the playlist id carrying its
	// solution videos.
	YoutubePlaylists map[string]string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("fetch.interval_minutes", defaultFetchIntervalMinutes)
	configViper.SetDefault("fetch.timeout_seconds", defaultFetchTimeoutSeconds)
	configViper.SetDefault("codeforces.api_url", defaultCodeforcesAPIURL)
	configViper.SetDefault("codechef.api_url", defaultCodechefAPIURL)
	configViper.SetDefault("leetcode.api_url", defaultLeetcodeAPIURL)
	configViper.SetDefault("youtube.api_url", defaultYoutubeAPIURL)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:      configViper.GetString("http.address"),
		DatabasePath:     configViper.GetString("database.path"),
		LogLevel:         configViper.GetString("log.level"),
		AdminToken:       configViper.GetString("admin.token"),
		FetchInterval:    time.Duration(configViper.GetInt("fetch.interval_minutes")) * time.Minute,
		FetchTimeout:     time.Duration(configViper.GetInt("fetch.timeout_seconds")) * time.Second,
		CodeforcesAPIURL: configViper.GetString("codeforces.api_url"),
		CodechefAPIURL:   configViper.GetString("codechef.api_url"),
		LeetcodeAPIURL:   configViper.GetString("leetcode.api_url"),
		YoutubeAPIURL:    configViper.GetString("youtube.api_url"),
		YoutubeAPIKey:    configViper.GetString("youtube.api_key"),
		YoutubePlaylists: configViper.GetStringMapString("youtube.playlists"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.FetchInterval <= 0 {
		return fmt.Errorf("fetch.interval_minutes must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be positive")
	}
	if len(c.YoutubePlaylists) > 0 && strings.TrimSpace(c.YoutubeAPIKey) == "" {
		return fmt.Errorf("youtube.api_key is required when youtube.playlists is set")
	}
	return nil
}
