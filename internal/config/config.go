// Package config loads client and CLI settings from a YAML file, a .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
	"github.com/fivetwenty-io/spotify-client/pkg/spotify"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SPOTIFY"

const dirName = ".spotify"

// Settings is the merged configuration.
type Settings struct {
	ClientID     string   `json:"client_id"               mapstructure:"client_id"      yaml:"client_id"`
	ClientSecret string   `json:"client_secret,omitempty" mapstructure:"client_secret"  yaml:"client_secret,omitempty"`
	RedirectURI  string   `json:"redirect_uri"            mapstructure:"redirect_uri"   yaml:"redirect_uri"`
	Scopes       []string `json:"scopes,omitempty"        mapstructure:"scopes"         yaml:"scopes,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty" mapstructure:"refresh_token"  yaml:"refresh_token,omitempty"`
	AccessToken  string   `json:"access_token,omitempty"  mapstructure:"access_token"   yaml:"access_token,omitempty"`

	APIBaseURL   string `json:"api_base_url"  mapstructure:"api_base_url"  yaml:"api_base_url"`
	TokenURL     string `json:"token_url"     mapstructure:"token_url"     yaml:"token_url"`
	AuthorizeURL string `json:"authorize_url" mapstructure:"authorize_url" yaml:"authorize_url"`

	TokenCachePath string `json:"token_cache_path"      mapstructure:"token_cache_path" yaml:"token_cache_path"`
	NATSURL        string `json:"nats_url,omitempty"    mapstructure:"nats_url"         yaml:"nats_url,omitempty"`
	NATSBucket     string `json:"nats_bucket,omitempty" mapstructure:"nats_bucket"      yaml:"nats_bucket,omitempty"`

	Backend     string        `json:"backend"      mapstructure:"backend"      yaml:"backend"`
	HTTPTimeout time.Duration `json:"http_timeout" mapstructure:"http_timeout" yaml:"http_timeout"`
	Market      string        `json:"market"       mapstructure:"market"       yaml:"market"`
	Output      string        `json:"output"       mapstructure:"output"       yaml:"output"`
	Verbose     bool          `json:"verbose"      mapstructure:"verbose"      yaml:"verbose"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `json:"config_file,omitempty" mapstructure:"-" yaml:"config_file,omitempty"`
}

// Dir returns ~/.spotify.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, dirName), nil
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}

	return nil
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper, dir string) {
	v.SetDefault("api_base_url", constants.DefaultAPIBaseURL)
	v.SetDefault("token_url", constants.DefaultTokenURL)
	v.SetDefault("authorize_url", constants.DefaultAuthorizeURL)
	v.SetDefault("redirect_uri", constants.DefaultRedirectURI)
	v.SetDefault("backend", string(spotify.BackendBlocking))
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("output", constants.FormatTable)
	v.SetDefault("nats_bucket", constants.DefaultTokenBucket)

	// Keys without a real default are registered so AutomaticEnv can fill
	// them during Unmarshal.
	for _, key := range []string{"refresh_token", "access_token", "nats_url", "market"} {
		v.SetDefault(key, "")
	}

	v.SetDefault("scopes", []string{})
	v.SetDefault("verbose", false)

	if dir != "" {
		v.SetDefault("token_cache_path", filepath.Join(dir, constants.DefaultTokenFile))
	}
}

// BindEnv maps environment variables onto v. Every key is read from
// SPOTIFY_<KEY>; the client credentials are also read from the bare
// CLIENT_ID and CLIENT_SECRET variables.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	bindings := map[string][]string{
		"client_id":     {EnvPrefix + "_CLIENT_ID", "CLIENT_ID"},
		"client_secret": {EnvPrefix + "_CLIENT_SECRET", "CLIENT_SECRET"},
	}

	for key, names := range bindings {
		err := v.BindEnv(append([]string{key}, names...)...)
		if err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}

	return nil
}

// Load reads configFile, or config.yml in dir when configFile is empty, into
// v and returns the merged settings. A missing default file is not an error.
func Load(v *viper.Viper, configFile, dir string) (*Settings, error) {
	SetDefaults(v, dir)

	err := BindEnv(v)
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else if dir != "" {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}

	if configFile != "" || dir != "" {
		err = v.ReadInConfig()

		var notFound viper.ConfigFileNotFoundError
		if err != nil && !(configFile == "" && errors.As(err, &notFound)) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var settings Settings

	err = v.Unmarshal(&settings)
	if err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	settings.ConfigFile = v.ConfigFileUsed()

	return &settings, nil
}

// SpotifyConfig converts the settings into a client configuration.
func (s *Settings) SpotifyConfig(logger spotify.Logger) (*spotify.Config, error) {
	backend, err := spotify.ParseBackendKind(s.Backend)
	if err != nil {
		return nil, err
	}

	return &spotify.Config{
		APIBaseURL:     s.APIBaseURL,
		TokenURL:       s.TokenURL,
		AuthorizeURL:   s.AuthorizeURL,
		ClientID:       s.ClientID,
		ClientSecret:   s.ClientSecret,
		RedirectURI:    s.RedirectURI,
		Scopes:         s.Scopes,
		RefreshToken:   s.RefreshToken,
		AccessToken:    s.AccessToken,
		TokenCachePath: s.TokenCachePath,
		NATSURL:        s.NATSURL,
		NATSBucket:     s.NATSBucket,
		Backend:        backend,
		HTTPTimeout:    s.HTTPTimeout,
		Debug:          s.Verbose,
		Logger:         logger,
	}, nil
}

// Redacted returns a copy with secrets masked.
func (s *Settings) Redacted() *Settings {
	redacted := *s

	for _, secret := range []*string{&redacted.ClientSecret, &redacted.RefreshToken, &redacted.AccessToken} {
		if *secret != "" {
			*secret = constants.MaskedSecret
		}
	}

	return &redacted
}
