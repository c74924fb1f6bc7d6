package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	var c Config
	c.LoadDefaults()

	err := parseEnv(&c, "", mapLookup(map[string]string{
		envAddress:       ":5000",
		envMongoURI:      "mongodb://db:27017",
		envUserSecret:    "us",
		envAdminSecret:   "as",
		envTokenValidity: "45m",
		envBcryptCost:    "8",
		envS3Bucket:      "",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":5000", c.EndpointAddrHTTP)
	assert.Equal(t, "mongodb://db:27017", c.MongoURI)
	assert.Equal(t, "us", c.UserSecretKey)
	assert.Equal(t, "as", c.AdminSecretKey)
	assert.Equal(t, 45*time.Minute, c.TokenValidityDuration)
	assert.Equal(t, 8, c.BcryptCost)
	// empty values do not clobber defaults
	assert.Equal(t, "course-images", c.S3Bucket)
}

func TestParseEnv_InvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		envTokenValidity: "later",
		envBcryptCost:    "high",
	} {
		t.Run(key, func(t *testing.T) {
			var c Config
			err := parseEnv(&c, "", mapLookup(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	const key = "COURSEHUB_TEST_DOTENV_VALUE"
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(envMongoDatabase+"=from-dotenv\n"+key+"=1\n"), 0o600))
	t.Setenv(envMongoDatabase, "")
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(envMongoDatabase))
	require.NoError(t, os.Unsetenv(key))

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c, path, os.LookupEnv))

	assert.Equal(t, "from-dotenv", c.MongoDatabase)
}

func TestParseEnv_MissingDotEnvIsIgnored(t *testing.T) {
	var c Config
	err := parseEnv(&c, filepath.Join(t.TempDir(), "absent.env"), mapLookup(nil))
	assert.NoError(t, err)
}
