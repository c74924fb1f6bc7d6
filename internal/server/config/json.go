package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/flagx"
)

// jsonDuration accepts either a Go duration string ("15m") or a number of
// nanoseconds.
type jsonDuration struct {
	time.Duration
}

func (d *jsonDuration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// fileConfig mirrors Config for JSON decoding. Pointer fields distinguish
// "absent" from "zero" so a partial file only overrides what it names.
type fileConfig struct {
	EndpointAddrHTTP       *string       `json:"endpoint_addr_http"`
	StorageDriver          *string       `json:"storage_driver"`
	DatabaseDSN            *string       `json:"database_dsn"`
	MongoURI               *string       `json:"mongo_uri"`
	MongoDatabase          *string       `json:"mongo_database"`
	UserSecretKey          *string       `json:"user_secret_key"`
	AdminSecretKey         *string       `json:"admin_secret_key"`
	TokenValidityDuration  *jsonDuration `json:"token_validity_duration"`
	BcryptCost             *int          `json:"bcrypt_cost"`
	ShutdownTimeout        *jsonDuration `json:"shutdown_timeout"`
	LogLevel               *string       `json:"log_level"`
	S3RootUser             *string       `json:"s3_root_user"`
	S3RootPassword         *string       `json:"s3_root_password"`
	S3Bucket               *string       `json:"s3_bucket"`
	S3Region               *string       `json:"s3_region"`
	S3BaseEndpoint         *string       `json:"s3_base_endpoint"`
	ImageUploadURLValidity *jsonDuration `json:"image_upload_url_validity"`
}

// parseJSON overlays values from the file given with -c/-config, if any.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc := &fileConfig{}
	if err := json.Unmarshal(data, fc); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&config.StorageDriver, fc.StorageDriver)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.MongoURI, fc.MongoURI)
	setString(&config.MongoDatabase, fc.MongoDatabase)
	setString(&config.UserSecretKey, fc.UserSecretKey)
	setString(&config.AdminSecretKey, fc.AdminSecretKey)
	setDuration(&config.TokenValidityDuration, fc.TokenValidityDuration)
	if fc.BcryptCost != nil {
		config.BcryptCost = *fc.BcryptCost
	}
	setDuration(&config.ShutdownTimeout, fc.ShutdownTimeout)
	setString(&config.LogLevel, fc.LogLevel)
	setString(&config.S3RootUser, fc.S3RootUser)
	setString(&config.S3RootPassword, fc.S3RootPassword)
	setString(&config.S3Bucket, fc.S3Bucket)
	setString(&config.S3Region, fc.S3Region)
	setString(&config.S3BaseEndpoint, fc.S3BaseEndpoint)
	setDuration(&config.ImageUploadURLValidity, fc.ImageUploadURLValidity)

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *jsonDuration) {
	if v != nil {
		*dst = v.Duration
	}
}
