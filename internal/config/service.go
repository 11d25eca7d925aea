package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// File is the on-disk TOML layout. Durations are written as strings
// like "300ms" so the file stays readable and viper can parse it back.
type File struct {
	Geocoder GeocoderFile `toml:"geocoder"`
	Search   SearchFile   `toml:"search"`
	UI       UIFile       `toml:"ui"`
	Log      LogFile      `toml:"log"`
	Metrics  MetricsFile  `toml:"metrics"`
}

type GeocoderFile struct {
	Backend       string   `toml:"backend"`
	Endpoint      string   `toml:"endpoint"`
	UserAgent     string   `toml:"user_agent"`
	Email         string   `toml:"email,omitempty"`
	Limit         int      `toml:"limit"`
	Timeout       string   `toml:"timeout"`
	CountryCodes  []string `toml:"country_codes,omitempty"`
	Language      string   `toml:"language,omitempty"`
	GazetteerPath string   `toml:"gazetteer_path,omitempty"`
	MaxRetries    int      `toml:"max_retries"`
}

type SearchFile struct {
	Debounce string `toml:"debounce"`
	UpPolicy string `toml:"up_policy"`
}

type OriginFile struct {
	Lat *float64 `toml:"lat,omitempty"`
	Lon *float64 `toml:"lon,omitempty"`
}

type UIFile struct {
	ShowFlags bool       `toml:"show_flags"`
	Origin    OriginFile `toml:"origin"`
	Once      bool       `toml:"once"`
}

type LogFile struct {
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type MetricsFile struct {
	Addr string `toml:"addr,omitempty"`
}

// ConfigService reads and writes TOML config files
type ConfigService interface {
	LoadFromPath(path string) (*Settings, error)
	SaveToPath(settings *Settings, path string) error
}

type configService struct{}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	return &configService{}
}

// LoadFromPath reads a TOML file on its own, without env or flag overrides.
// Keys missing from the file keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f := toFile(Default())
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	settings, err := fromFile(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	settings.ConfigFile = path
	settings.normalize()
	return settings, nil
}

// SaveToPath writes settings as TOML, creating the directory if needed
func (cs *configService) SaveToPath(settings *Settings, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(toFile(settings))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// WriteTOML encodes settings in the config file layout
func WriteTOML(w io.Writer, settings *Settings) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(toFile(settings)); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return nil
}

func toFile(s *Settings) File {
	return File{
		Geocoder: GeocoderFile{
			Backend:       s.Geocoder.Backend,
			Endpoint:      s.Geocoder.Endpoint,
			UserAgent:     s.Geocoder.UserAgent,
			Email:         s.Geocoder.Email,
			Limit:         s.Geocoder.Limit,
			Timeout:       s.Geocoder.Timeout.String(),
			CountryCodes:  s.Geocoder.CountryCodes,
			Language:      s.Geocoder.Language,
			GazetteerPath: s.Geocoder.GazetteerPath,
			MaxRetries:    s.Geocoder.MaxRetries,
		},
		Search: SearchFile{
			Debounce: s.Search.Debounce.String(),
			UpPolicy: s.Search.UpPolicy,
		},
		UI: UIFile{
			ShowFlags: s.UI.ShowFlags,
			Origin:    OriginFile{Lat: s.UI.Origin.Lat, Lon: s.UI.Origin.Lon},
			Once:      s.UI.Once,
		},
		Log: LogFile{
			File:   s.Log.File,
			Level:  s.Log.Level,
			Format: s.Log.Format,
		},
		Metrics: MetricsFile{Addr: s.Metrics.Addr},
	}
}

func fromFile(f File) (*Settings, error) {
	timeout, err := time.ParseDuration(f.Geocoder.Timeout)
	if err != nil {
		return nil, fmt.Errorf("geocoder.timeout: %w", err)
	}
	debounce, err := time.ParseDuration(f.Search.Debounce)
	if err != nil {
		return nil, fmt.Errorf("search.debounce: %w", err)
	}
	return &Settings{
		Geocoder: GeocoderSettings{
			Backend:       f.Geocoder.Backend,
			Endpoint:      f.Geocoder.Endpoint,
			UserAgent:     f.Geocoder.UserAgent,
			Email:         f.Geocoder.Email,
			Limit:         f.Geocoder.Limit,
			Timeout:       timeout,
			CountryCodes:  f.Geocoder.CountryCodes,
			Language:      f.Geocoder.Language,
			GazetteerPath: f.Geocoder.GazetteerPath,
			MaxRetries:    f.Geocoder.MaxRetries,
		},
		Search: SearchSettings{
			Debounce: debounce,
			UpPolicy: f.Search.UpPolicy,
		},
		UI: UISettings{
			ShowFlags: f.UI.ShowFlags,
			Origin:    OriginSettings{Lat: f.UI.Origin.Lat, Lon: f.UI.Origin.Lon},
			Once:      f.UI.Once,
		},
		Log: LogSettings{
			File:   f.Log.File,
			Level:  f.Log.Level,
			Format: f.Log.Format,
		},
		Metrics: MetricsSettings{Addr: f.Metrics.Addr},
	}, nil
}
