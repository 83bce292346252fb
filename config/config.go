// Package config reads the process environment into a validated Config.
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendLocal = "local"
	BackendGCS   = "gcs"
)

var mailerFromPattern = regexp.MustCompile(`^[^<>@]+<[^@]+@[^@]+\.[^@]+>$`)

type Config struct {
	Env        string
	ServerHost string
	ServerPort int

	MongoURL string

	TokenSecret  string
	CookieSecret string

	TmpDir                string
	FileStorageBackend    string
	FileStorageDir        string
	GCSBucket             string
	GCSCredentialsFile    string
	MaxMultipartFilesSize int64

	MailerHost    string
	MailerPort    int
	MailerUser    string
	MailerPass    string
	MailerFrom    string
	MailerRootURL string

	FeedbackMailAddress string

	// Optional site-wide basic auth. Enabled when both values are set.
	BasicAuthUsername     string
	BasicAuthPasswordHash string

	AllowedOrigins []string
}

func get(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// mongoURL supports the platform-injected MONGODB_SERVICE_* variables,
// falling back to a plain MONGO_URL.
func mongoURL() string {
	host := get("MONGODB_SERVICE_HOST", "")
	port := get("MONGODB_SERVICE_PORT", "")
	user := get("MONGODB_USER", "")
	password := get("MONGODB_PASSWORD", "")
	database := get("MONGODB_DATABASE_NAME", "")
	if host != "" && port != "" && user != "" && password != "" && database != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s", user, password, host, port, database)
	}
	return get("MONGO_URL", "")
}

// Load reads an optional .env file and the process environment. It does not
// validate; call Validate on the result.
func Load() *Config {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	port, _ := strconv.Atoi(get("SERVER_PORT", "3000"))
	mailerPort, _ := strconv.Atoi(get("MAILER_PORT", "25"))
	maxSize, _ := strconv.ParseInt(get("MAX_MULTIPART_FILES_SIZE", "10485760"), 10, 64)

	var origins []string
	for _, o := range strings.Split(get("ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Env:                   get("ENV", "production"),
		ServerHost:            get("SERVER_HOST", "127.0.0.1"),
		ServerPort:            port,
		MongoURL:              mongoURL(),
		TokenSecret:           get("TOKEN_SECRET", ""),
		CookieSecret:          get("COOKIE_SECRET", ""),
		TmpDir:                os.TempDir(),
		FileStorageBackend:    get("FILE_STORAGE_BACKEND", BackendLocal),
		FileStorageDir:        get("FILE_STORAGE_DIR", ""),
		GCSBucket:             get("GCS_BUCKET", ""),
		GCSCredentialsFile:    get("GCS_CREDENTIALS_FILE", ""),
		MaxMultipartFilesSize: maxSize,
		MailerHost:            get("MAILER_HOST", ""),
		MailerPort:            mailerPort,
		MailerUser:            get("MAILER_USER", ""),
		MailerPass:            get("MAILER_PASS", ""),
		MailerFrom:            get("MAILER_FROM", "Procurement Concierge Program <noreply@procurementconcierge.gov.bc.ca>"),
		MailerRootURL:         strings.TrimRight(get("MAILER_ROOT_URL", "https://procurementconcierge.gov.bc.ca"), "/"),
		FeedbackMailAddress:   get("FEEDBACK_MAIL_ADDRESS", ""),
		BasicAuthUsername:     get("BASIC_AUTH_USERNAME", ""),
		BasicAuthPasswordHash: get("BASIC_AUTH_PASSWORD_HASH", ""),
		AllowedOrigins:        origins,
	}
}

// Validate returns every configuration problem at once so operators can fix
// them in a single pass.
func (c *Config) Validate() []string {
	var errs []string

	if c.Env != "development" && c.Env != "production" {
		errs = append(errs, `ENV must be either "development" or "production".`)
	}
	if c.ServerPort <= 0 {
		errs = append(errs, "SERVER_PORT must be a positive integer.")
	}
	if c.MongoURL == "" {
		errs = append(errs,
			"MONGO* variables must be properly specified.",
			"Either specify MONGO_URL, or specify the MONGODB_SERVICE_HOST, MONGODB_SERVICE_PORT, MONGODB_USER, MONGODB_PASSWORD, MONGODB_DATABASE_NAME environment variables.")
	}
	if c.TokenSecret == "" {
		errs = append(errs, "TOKEN_SECRET must be specified.")
	}
	if c.CookieSecret == "" {
		errs = append(errs, "COOKIE_SECRET must be specified.")
	}

	switch c.FileStorageBackend {
	case BackendLocal:
		if c.FileStorageDir == "" {
			errs = append(errs, "FILE_STORAGE_DIR must be specified.")
		}
	case BackendGCS:
		if c.GCSBucket == "" {
			errs = append(errs, "GCS_BUCKET must be specified when FILE_STORAGE_BACKEND is gcs.")
		}
	default:
		errs = append(errs, `FILE_STORAGE_BACKEND must be either "local" or "gcs".`)
	}

	if c.MaxMultipartFilesSize <= 0 {
		errs = append(errs, "MAX_MULTIPART_FILES_SIZE must be a positive integer.")
	}
	if c.MailerHost == "" || c.MailerPort <= 0 {
		errs = append(errs,
			"MAILER_* variables must be properly specified.",
			"MAILER_HOST and MAILER_PORT (positive integer) must both be specified.")
	}
	if !mailerFromPattern.MatchString(c.MailerFrom) {
		errs = append(errs, `MAILER_FROM must be specified using the format: "Name <email@domain.tld>".`)
	}
	if u, err := url.Parse(c.MailerRootURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "MAILER_ROOT_URL must be specified as a valid URL with a protocol and host.")
	}
	if (c.BasicAuthUsername == "") != (c.BasicAuthPasswordHash == "") {
		errs = append(errs, "BASIC_AUTH_USERNAME and BASIC_AUTH_PASSWORD_HASH must be specified together.")
	}

	return errs
}

// BasicAuthEnabled reports whether site-wide basic auth should be applied.
func (c *Config) BasicAuthEnabled() bool {
	return c.BasicAuthUsername != "" && c.BasicAuthPasswordHash != ""
}
