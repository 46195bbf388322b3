package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()

	require.NoError(t, Validate(cfg))
	require.Equal(t, 10*time.Minute, cfg.Linetypes.CacheTTL)
	require.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.False(t, cfg.Tracing.Enabled)
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TracingConfig
		wantErr string
	}{
		{name: "defaults", cfg: Defaults().Tracing},
		{name: "sample rate too high", cfg: TracingConfig{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "sample rate negative", cfg: TracingConfig{SampleRate: -0.1}, wantErr: "sample_rate"},
		{name: "unknown exporter", cfg: TracingConfig{Exporter: "zipkin"}, wantErr: "exporter"},
		{name: "file without path", cfg: TracingConfig{Enabled: true, Exporter: "file"}, wantErr: "file_path"},
		{name: "otlp without endpoint", cfg: TracingConfig{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint"},
		{name: "disabled file without path", cfg: TracingConfig{Exporter: "file"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateLinetypes(t *testing.T) {
	require.NoError(t, ValidateLinetypes(LinetypesConfig{Libraries: []string{"acad.lin"}}))
	require.ErrorContains(t, ValidateLinetypes(LinetypesConfig{CacheTTL: -time.Second}), "cache_ttl")
	require.ErrorContains(t, ValidateLinetypes(LinetypesConfig{Libraries: []string{"a.lin", ""}}), "libraries[1]")
}

func TestValidateWatch(t *testing.T) {
	require.NoError(t, ValidateWatch(WatchConfig{}))
	require.ErrorContains(t, ValidateWatch(WatchConfig{Debounce: -time.Millisecond}), "debounce")
}

func TestDefaultConfigTemplate_LoadsWithViper(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))
	require.NoError(t, Validate(cfg))
	require.Equal(t, 10*time.Minute, cfg.Linetypes.CacheTTL)
	require.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	require.Equal(t, "dxfcat", cfg.Tracing.ServiceName)
	require.Empty(t, cfg.Linetypes.Libraries)
}
