package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/flagx"
)

var ownFlags = []string{
	"-a", "-driver", "-d", "-m", "-mdb", "-us", "-as", "-t", "-bc", "-l",
	"-u", "-p", "-b", "-g", "-e",
}

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string    HTTP bind address (e.g. ":3000")
//	-driver      storage driver: postgres, mongo or memory
//	-d string    PostgreSQL DSN
//	-m string    MongoDB URI
//	-mdb string  MongoDB database name
//	-us string   user token secret
//	-as string   admin token secret
//	-t int       token validity in minutes, 0 disables expiry
//	-bc int      bcrypt cost
//	-l string    log level
//	-u/-p/-b/-g/-e  S3 user, password, bucket, region, endpoint
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("coursehub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "driver", config.StorageDriver, "storage driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "mdb", config.MongoDatabase, "MongoDB database")
	fs.StringVar(&config.UserSecretKey, "us", config.UserSecretKey, "user token secret")
	fs.StringVar(&config.AdminSecretKey, "as", config.AdminSecretKey, "admin token secret")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes, 0 = no expiry)")
	fs.IntVar(&config.BcryptCost, "bc", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return err
	}

	tokenValiditySet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			tokenValiditySet = true
		}
	})
	if tokenValiditySet {
		config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	}

	return nil
}
