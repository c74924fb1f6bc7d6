package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-driver", "mongo", "-d", "db", "-m", "mongodb://m:27017", "-mdb", "hub",
				"-us", "u-secret", "-as", "a-secret", "-t", "30", "-bc", "12", "-l", "debug",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			},
			expected: &Config{
				EndpointAddrHTTP:      "127.0.0.1:9090",
				StorageDriver:         "mongo",
				DatabaseDSN:           "db",
				MongoURI:              "mongodb://m:27017",
				MongoDatabase:         "hub",
				UserSecretKey:         "u-secret",
				AdminSecretKey:        "a-secret",
				TokenValidityDuration: 30 * time.Minute,
				BcryptCost:            12,
				LogLevel:              "debug",
				S3RootUser:            "user",
				S3RootPassword:        "password",
				S3Bucket:              "bucket",
				S3Region:              "us-west-1",
				S3BaseEndpoint:        "http://endpoint",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "config.json", "-x", "1", "-a=:1234"},
			expected: &Config{EndpointAddrHTTP: ":1234"},
		},
		{
			name:    "bad int",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			err := parseFlags(config, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			if diff := cmp.Diff(tt.expected, config); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFlags_KeepsTokenValidityWhenUnset(t *testing.T) {
	config := &Config{TokenValidityDuration: 90 * time.Second}

	require.NoError(t, parseFlags(config, []string{"-a", ":1"}))
	assert.Equal(t, 90*time.Second, config.TokenValidityDuration)
}
