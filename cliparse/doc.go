// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are resolved in three layers, later layers winning:

 1. a .env file in the working directory, if present (godotenv; never
    overrides variables already set)
 2. environment variables (caarlos0/env struct tags, with defaults)
 3. CLI flags

# Config Fields

	Field            Env                    Flag               Default
	Port             PORT                   -p                 8080
	StoreType        STORE_TYPE             -t                 csv
	DataFile         DATA_FILE              -f                 students.csv
	DatabaseURL      DATABASE_URL           -d
	AdminUsername    ADMIN_USERNAME         -admin-user
	AdminPassword    ADMIN_PASSWORD         -admin-password
	SessionSalt      SESSION_SALT           -session-salt
	LoginRate        LOGIN_RATE_PER_MINUTE  -login-rate         5
	TrustProxy       TRUST_PROXY            -trust-proxy       false
	GroupingURL      GROUPING_URL           -grouping-url      http://127.0.0.1:8000/run
	GroupingTimeout  GROUPING_TIMEOUT       -grouping-timeout  30s
	NATSURL          NATS_URL               -nats-url
	BackupS3Bucket   BACKUP_S3_BUCKET       -backup-bucket
	BackupS3Key      BACKUP_S3_KEY                             connecthub/students.csv
	BackupS3Region   BACKUP_S3_REGION
	BackupS3Endpoint BACKUP_S3_ENDPOINT

# Validation

ParseFlags returns an error if:

  - STORE_TYPE is not csv, sqlite or postgres
  - DATABASE_URL is missing for the sqlite or postgres store
  - ADMIN_USERNAME, ADMIN_PASSWORD or SESSION_SALT is missing
  - GROUPING_TIMEOUT is not positive

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	st, err := store.Open(cfg.StoreType, cfg.StoreTarget())
*/
package cliparse
