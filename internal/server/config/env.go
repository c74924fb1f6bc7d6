package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names. JWT_USER_SECRET, JWT_ADMIN_SECRET and MONGO_URL
// keep the names used by existing deployments.
const (
	envAddress        = "ADDRESS"
	envStorageDriver  = "STORAGE_DRIVER"
	envDatabaseDSN    = "DATABASE_DSN"
	envMongoURI       = "MONGO_URL"
	envMongoDatabase  = "MONGO_DATABASE"
	envUserSecret     = "JWT_USER_SECRET"
	envAdminSecret    = "JWT_ADMIN_SECRET"
	envTokenValidity  = "TOKEN_VALIDITY"
	envBcryptCost     = "BCRYPT_COST"
	envLogLevel       = "LOG_LEVEL"
	envS3RootUser     = "S3_ROOT_USER"
	envS3RootPassword = "S3_ROOT_PASSWORD"
	envS3Bucket       = "S3_BUCKET"
	envS3Region       = "S3_REGION"
	envS3BaseEndpoint = "S3_BASE_ENDPOINT"
)

type lookupFunc func(key string) (string, bool)

// parseEnv loads dotenvPath (when it exists) into the process environment
// without overriding variables that are already set, then overlays every
// recognised variable onto config.
func parseEnv(config *Config, dotenvPath string, lookup lookupFunc) error {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	strs := map[string]*string{
		envAddress:        &config.EndpointAddrHTTP,
		envStorageDriver:  &config.StorageDriver,
		envDatabaseDSN:    &config.DatabaseDSN,
		envMongoURI:       &config.MongoURI,
		envMongoDatabase:  &config.MongoDatabase,
		envUserSecret:     &config.UserSecretKey,
		envAdminSecret:    &config.AdminSecretKey,
		envLogLevel:       &config.LogLevel,
		envS3RootUser:     &config.S3RootUser,
		envS3RootPassword: &config.S3RootPassword,
		envS3Bucket:       &config.S3Bucket,
		envS3Region:       &config.S3Region,
		envS3BaseEndpoint: &config.S3BaseEndpoint,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(envTokenValidity); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTokenValidity, err)
		}
		config.TokenValidityDuration = d
	}

	if v, ok := lookup(envBcryptCost); ok && v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envBcryptCost, err)
		}
		config.BcryptCost = cost
	}

	return nil
}
