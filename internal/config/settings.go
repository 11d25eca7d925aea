package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"locsearch/internal/coords"
	"locsearch/internal/selection"
)

// Backend names
const (
	BackendNominatim = "nominatim"
	BackendGazetteer = "gazetteer"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// EnvPrefix is prepended to every environment override, e.g. LOCSEARCH_GEOCODER_BACKEND.
const EnvPrefix = "LOCSEARCH"

// GeocoderSettings configures the geocoding backend
type GeocoderSettings struct {
	Backend       string        `mapstructure:"backend"`
	Endpoint      string        `mapstructure:"endpoint"`
	UserAgent     string        `mapstructure:"user_agent"`
	Email         string        `mapstructure:"email"`
	Limit         int           `mapstructure:"limit"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CountryCodes  []string      `mapstructure:"country_codes"`
	Language      string        `mapstructure:"language"`
	GazetteerPath string        `mapstructure:"gazetteer_path"`
	MaxRetries    int           `mapstructure:"max_retries"`
}

// SearchSettings configures the debounce window and keyboard behaviour
type SearchSettings struct {
	Debounce time.Duration `mapstructure:"debounce"`
	UpPolicy string        `mapstructure:"up_policy"`
}

// OriginSettings is the reference point for distances. Both fields must be set.
type OriginSettings struct {
	Lat *float64 `mapstructure:"lat"`
	Lon *float64 `mapstructure:"lon"`
}

// UISettings configures the terminal picker
type UISettings struct {
	ShowFlags bool           `mapstructure:"show_flags"`
	Origin    OriginSettings `mapstructure:"origin"`
	Once      bool           `mapstructure:"once"`
}

// LogSettings configures the log sink
type LogSettings struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsSettings configures the Prometheus endpoint. Empty Addr disables it.
type MetricsSettings struct {
	Addr string `mapstructure:"addr"`
}

// Settings is the resolved application configuration
type Settings struct {
	Geocoder GeocoderSettings `mapstructure:"geocoder"`
	Search   SearchSettings   `mapstructure:"search"`
	UI       UISettings       `mapstructure:"ui"`
	Log      LogSettings      `mapstructure:"log"`
	Metrics  MetricsSettings  `mapstructure:"metrics"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `mapstructure:"-"`
}

// keys lists every setting so each can be overridden from the environment.
var keys = []string{
	"geocoder.backend",
	"geocoder.endpoint",
	"geocoder.user_agent",
	"geocoder.email",
	"geocoder.limit",
	"geocoder.timeout",
	"geocoder.country_codes",
	"geocoder.language",
	"geocoder.gazetteer_path",
	"geocoder.max_retries",
	"search.debounce",
	"search.up_policy",
	"ui.show_flags",
	"ui.origin.lat",
	"ui.origin.lon",
	"ui.once",
	"log.file",
	"log.level",
	"log.format",
	"metrics.addr",
}

// flagKeys maps CLI flag names onto setting keys
var flagKeys = map[string]string{
	"backend":      "geocoder.backend",
	"endpoint":     "geocoder.endpoint",
	"gazetteer":    "geocoder.gazetteer_path",
	"debounce":     "search.debounce",
	"up-policy":    "search.up_policy",
	"once":         "ui.once",
	"metrics-addr": "metrics.addr",
	"log-file":     "log.file",
	"log-level":    "log.level",
}

// Default returns the built-in settings
func Default() *Settings {
	return &Settings{
		Geocoder: GeocoderSettings{
			Backend:    BackendNominatim,
			Endpoint:   "https://nominatim.openstreetmap.org/",
			UserAgent:  "locsearch",
			Limit:      8,
			Timeout:    10 * time.Second,
			MaxRetries: 3,
		},
		Search: SearchSettings{
			Debounce: 300 * time.Millisecond,
			UpPolicy: selection.PolicyStay.String(),
		},
		UI: UISettings{
			ShowFlags: true,
		},
		Log: LogSettings{
			File:   "locsearch.log",
			Level:  "info",
			Format: LogFormatText,
		},
	}
}

// RegisterFlags adds the overridable settings to fs
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "config file (default ./.locsearch.toml or $XDG_CONFIG_HOME/locsearch/config.toml)")
	fs.String("backend", d.Geocoder.Backend, "geocoder backend: nominatim or gazetteer")
	fs.String("endpoint", d.Geocoder.Endpoint, "Nominatim base URL")
	fs.String("gazetteer", "", "JSON file of places for the gazetteer backend")
	fs.Duration("debounce", d.Search.Debounce, "quiet time before a query is sent")
	fs.String("up-policy", d.Search.UpPolicy, "up arrow with nothing selected: stay or last")
	fs.Bool("once", false, "exit after the first selection")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	fs.String("log-file", d.Log.File, "log file")
	fs.String("log-level", d.Log.Level, "log level: debug, info, warn, error")
}

// LoadOptions controls where settings are read from
type LoadOptions struct {
	// Flags are bound with the highest priority. May be nil.
	Flags *pflag.FlagSet
	// ConfigFile is an explicit TOML file. It must exist when set.
	ConfigFile string
	// EnvFile is loaded into the environment first. Missing files are ignored.
	EnvFile string
	// SearchPaths are tried in order when ConfigFile is empty.
	SearchPaths []string
}

// DefaultSearchPaths returns ./.locsearch.toml and the per-user config file
func DefaultSearchPaths() []string {
	paths := []string{".locsearch.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "locsearch", "config.toml"))
	}
	return paths
}

// LoadSettings resolves settings with the default sources:
// flags > LOCSEARCH_* env (after .env) > TOML file > defaults.
func LoadSettings(flags *pflag.FlagSet) (*Settings, error) {
	opts := LoadOptions{Flags: flags, EnvFile: ".env", SearchPaths: DefaultSearchPaths()}
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			opts.ConfigFile = f.Value.String()
		}
	}
	return Load(opts)
}

// Load resolves settings from the sources in opts
func Load(opts LoadOptions) (*Settings, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	file, err := resolveConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	settings.ConfigFile = file
	settings.normalize()
	return &settings, nil
}

func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("geocoder.backend", d.Geocoder.Backend)
	v.SetDefault("geocoder.endpoint", d.Geocoder.Endpoint)
	v.SetDefault("geocoder.user_agent", d.Geocoder.UserAgent)
	v.SetDefault("geocoder.email", d.Geocoder.Email)
	v.SetDefault("geocoder.limit", d.Geocoder.Limit)
	v.SetDefault("geocoder.timeout", d.Geocoder.Timeout)
	v.SetDefault("geocoder.country_codes", d.Geocoder.CountryCodes)
	v.SetDefault("geocoder.language", d.Geocoder.Language)
	v.SetDefault("geocoder.gazetteer_path", d.Geocoder.GazetteerPath)
	v.SetDefault("geocoder.max_retries", d.Geocoder.MaxRetries)
	v.SetDefault("search.debounce", d.Search.Debounce)
	v.SetDefault("search.up_policy", d.Search.UpPolicy)
	v.SetDefault("ui.show_flags", d.UI.ShowFlags)
	v.SetDefault("ui.once", d.UI.Once)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		path := expandHomeDir(opts.ConfigFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %s", path)
		}
		return path, nil
	}
	for _, p := range opts.SearchPaths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", nil
}

func (s *Settings) normalize() {
	s.Geocoder.Backend = strings.ToLower(strings.TrimSpace(s.Geocoder.Backend))
	s.Geocoder.GazetteerPath = expandHomeDir(s.Geocoder.GazetteerPath)
	s.Log.File = expandHomeDir(s.Log.File)
	s.Log.Format = strings.ToLower(s.Log.Format)

	var codes []string
	for _, c := range s.Geocoder.CountryCodes {
		// a single env value may still hold a comma list
		for _, part := range strings.Split(c, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				codes = append(codes, part)
			}
		}
	}
	s.Geocoder.CountryCodes = codes
}

// Validate reports the first invalid setting
func (s *Settings) Validate() error {
	switch s.Geocoder.Backend {
	case BackendNominatim:
		if s.Geocoder.Endpoint == "" {
			return errors.New("geocoder.endpoint must be set for the nominatim backend")
		}
	case BackendGazetteer:
		if s.Geocoder.GazetteerPath == "" {
			return errors.New("geocoder.gazetteer_path must be set for the gazetteer backend")
		}
	default:
		return fmt.Errorf("unknown geocoder.backend %q", s.Geocoder.Backend)
	}
	if s.Geocoder.Limit <= 0 {
		return fmt.Errorf("geocoder.limit must be positive, got %d", s.Geocoder.Limit)
	}
	if s.Geocoder.Timeout < 0 {
		return fmt.Errorf("geocoder.timeout must not be negative, got %s", s.Geocoder.Timeout)
	}
	if s.Search.Debounce <= 0 {
		return fmt.Errorf("search.debounce must be positive, got %s", s.Search.Debounce)
	}
	if _, err := selection.ParsePolicy(s.Search.UpPolicy); err != nil {
		return fmt.Errorf("search.up_policy: %w", err)
	}
	if (s.UI.Origin.Lat == nil) != (s.UI.Origin.Lon == nil) {
		return errors.New("ui.origin needs both lat and lon")
	}
	if p, ok := s.UI.OriginPoint(); ok && !p.Valid() {
		return fmt.Errorf("ui.origin out of range: %s", coords.FormatPoint(p))
	}
	if _, err := s.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if s.Log.Format != LogFormatText && s.Log.Format != LogFormatJSON {
		return fmt.Errorf("unknown log.format %q", s.Log.Format)
	}
	return nil
}

// Policy returns the parsed up-arrow policy. Invalid values fall back to stay.
func (s *Settings) Policy() selection.Policy {
	p, err := selection.ParsePolicy(s.Search.UpPolicy)
	if err != nil {
		return selection.PolicyStay
	}
	return p
}

// OriginPoint returns the distance origin when both coordinates are set
func (u UISettings) OriginPoint() (coords.Point, bool) {
	if u.Origin.Lat == nil || u.Origin.Lon == nil {
		return coords.Point{}, false
	}
	return coords.Point{Lat: *u.Origin.Lat, Lon: *u.Origin.Lon}, true
}

// SlogLevel parses Level
func (l LogSettings) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
