package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-access-gate/internal/pkg/validate"
)

const defaultCodeExpireMinutes = 10

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AllowedDomains    []string `validate:"required,min=1,dive,required,hostname_rfc1123"`
	CodeExpireMinutes int      `validate:"gt=0"`
	EscalationContact string   `validate:"required"`
	ResourceName      string
	ResourceID        string `validate:"required"`
	PublicBaseURL     string `validate:"required,url"`

	GrantTTL            time.Duration
	PresignTTL          time.Duration `validate:"gt=0"`
	CollaboratorTimeout time.Duration `validate:"gt=0"`
	SessionIdleTTL      time.Duration `validate:"gt=0"`
	SessionSweepEvery   time.Duration `validate:"gt=0"`
	InboundSecretToken  string

	SMTPHost     string `validate:"required"`
	SMTPPort     int    `validate:"gt=0,lte=65535"`
	SMTPFrom     string `validate:"required,email"`
	SMTPUsername string `validate:"required"`
	SMTPPassword string `validate:"required"`
	SMTPTLS      string `validate:"oneof=ssl starttls none"`

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string `validate:"required"`

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string

	SNSRegion     string
	OperatorPhone string `validate:"omitempty,e164"`

	AllowedOrigins []string // CORS allowed origins

	// TrustProxyHeaders makes the rate limiter key on X-Forwarded-For /
	// X-Real-Ip. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Grants string `validate:"required"`
}

// CodeTTL is how long an issued verification code stays valid.
func (c *Config) CodeTTL() time.Duration {
	return time.Duration(c.CodeExpireMinutes) * time.Minute
}

// Load reads all configuration from environment variables and refuses
// incomplete settings: the domain allow-list and the mail credentials are
// mandatory.
func Load() (*Config, error) {
	cfg := &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AllowedDomains:      splitList(os.Getenv("EMAIL_DOMAINS")),
		CodeExpireMinutes:   getEnvPositiveInt("CODE_EXPIRE_MINUTES", defaultCodeExpireMinutes),
		EscalationContact:   getEnv("ESCALATION_CONTACT", "@support"),
		ResourceName:        getEnv("RESOURCE_NAME", "the channel"),
		ResourceID:          getEnv("RESOURCE_ID", ""),
		PublicBaseURL:       strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		GrantTTL:            time.Duration(getEnvInt("GRANT_TTL_HOURS", 0)) * time.Hour,
		PresignTTL:          time.Duration(getEnvInt("PRESIGN_TTL_MINUTES", 5)) * time.Minute,
		CollaboratorTimeout: time.Duration(getEnvInt("COLLABORATOR_TIMEOUT_SECONDS", 15)) * time.Second,
		SessionIdleTTL:      time.Duration(getEnvInt("SESSION_IDLE_TTL_HOURS", 24)) * time.Hour,
		SessionSweepEvery:   time.Duration(getEnvInt("SESSION_SWEEP_MINUTES", 10)) * time.Minute,
		InboundSecretToken:  getEnv("INBOUND_SECRET_TOKEN", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 465),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPTLS:      strings.ToLower(getEnv("SMTP_TLS", "ssl")),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Grants: getEnv("DYNAMO_TABLE_GRANTS", "grants"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "access-gate-resources"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),

		SNSRegion:     getEnv("SNS_REGION", "us-east-1"),
		OperatorPhone: getEnv("OPERATOR_PHONE", ""),

		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvPositiveInt falls back when the value is absent, malformed or not positive.
func getEnvPositiveInt(key string, fallback int) int {
	if n := getEnvInt(key, fallback); n > 0 {
		return n
	}
	return fallback
}

// splitList splits a comma list, trimming and lower-casing each item and
// dropping empty ones.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
