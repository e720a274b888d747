package config

import (
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/cryptopass/internal/flagx"
	"github.com/dmitrijs2005/cryptopass/internal/timex"
)

// FileConfig is the on-disk shape of the configuration, shared by the JSON
// and TOML decoders. Durations accept "1m" style strings.
type FileConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc" toml:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http" toml:"endpoint_addr_http"`
	DocumentStorage             string         `json:"document_storage" toml:"document_storage"`
	MailboxStorage              string         `json:"mailbox_storage" toml:"mailbox_storage"`
	DatabaseDSN                 string         `json:"database_dsn" toml:"database_dsn"`
	SecretKey                   string         `json:"secret_key" toml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" toml:"access_token_validity_duration"`
	ChallengeTTL                timex.Duration `json:"challenge_ttl" toml:"challenge_ttl"`
	S3RootUser                  string         `json:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password" toml:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket" toml:"s3_bucket"`
	S3Region                    string         `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
	LogLevel                    string         `json:"log_level" toml:"log_level"`
}

// parseFile overlays values from the file named by -c / -config. Keys absent
// from the file keep their current value. Panics on unreadable or invalid
// files.
func parseFile(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch flagx.ConfigFormat(path) {
	case flagx.FormatTOML:
		if _, err := toml.Decode(string(data), c); err != nil {
			panic(err)
		}
	default:
		if err := json.Unmarshal(data, c); err != nil {
			panic(err)
		}
	}

	c.applyTo(config)
}

func (c *FileConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DocumentStorage, c.DocumentStorage)
	setString(&config.MailboxStorage, c.MailboxStorage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ChallengeTTL.Duration > 0 {
		config.ChallengeTTL = c.ChallengeTTL.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
