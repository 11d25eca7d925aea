package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigService_RoundTrip(t *testing.T) {
	lat, lon := 51.5072, -0.1276
	s := Default()
	s.Geocoder.CountryCodes = []string{"gb"}
	s.Geocoder.Email = "ops@example.com"
	s.Search.Debounce = 450 * time.Millisecond
	s.UI.Origin = OriginSettings{Lat: &lat, Lon: &lon}
	s.Metrics.Addr = "127.0.0.1:9100"

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cs := NewConfigService()
	require.NoError(t, cs.SaveToPath(s, path))

	got, err := cs.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, got.ConfigFile)

	got.ConfigFile = ""
	assert.Equal(t, s, got)
}

func TestConfigService_WritesReadableDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, NewConfigService().SaveToPath(Default(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debounce = '300ms'")
	assert.Contains(t, string(data), "timeout = '10s'")
}

func TestConfigService_SavedFileIsReadByViper(t *testing.T) {
	s := Default()
	s.Search.UpPolicy = "last"
	s.Geocoder.Limit = 4

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, NewConfigService().SaveToPath(s, path))

	got, err := isolated(t, LoadOptions{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, "last", got.Search.UpPolicy)
	assert.Equal(t, 4, got.Geocoder.Limit)
	assert.Equal(t, 300*time.Millisecond, got.Search.Debounce)
}

func TestConfigService_PartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "config.toml", "[search]\nup_policy = \"last\"\n")

	got, err := NewConfigService().LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "last", got.Search.UpPolicy)
	assert.Equal(t, 8, got.Geocoder.Limit)
	assert.Equal(t, 300*time.Millisecond, got.Search.Debounce)
}

func TestConfigService_Errors(t *testing.T) {
	cs := NewConfigService()

	_, err := cs.LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "config file not found")

	bad := writeFile(t, "bad.toml", "[search\n")
	_, err = cs.LoadFromPath(bad)
	assert.ErrorContains(t, err, "failed to parse config")

	badDuration := writeFile(t, "dur.toml", "[search]\ndebounce = \"soon\"\n")
	_, err = cs.LoadFromPath(badDuration)
	assert.ErrorContains(t, err, "search.debounce")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogSettings{Level: "warn", Format: LogFormatJSON})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "query", "paris")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"query":"paris"`)

	_, err = NewLogger(&buf, LogSettings{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "locsearch.log")
	logger, closer, err := OpenLogFile(LogSettings{File: path, Level: "debug", Format: LogFormatText})
	require.NoError(t, err)

	logger.Debug("search issued", "epoch", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "search issued")
	assert.Contains(t, string(data), "epoch=3")
}

func TestLogSkipsIrrelevantSettings(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogSettings{Level: "info"})
	require.NoError(t, err)

	s := Default()
	s.Geocoder.Email = "secret@example.com"
	Log(s, logger)

	out := buf.String()
	assert.Contains(t, out, "geocoder.endpoint")
	assert.NotContains(t, out, "gazetteer_path")
	assert.NotContains(t, out, "secret@example.com")
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTOML(&buf, Default()))
	assert.Contains(t, buf.String(), "[geocoder]")
	assert.Contains(t, buf.String(), "backend = 'nominatim'")
	assert.Contains(t, buf.String(), "[search]")
}
