package config

import (
	"os"
	"strings"
)

// Config captures process-level configuration for whatever service embeds
// this module. All backends are optional: with everything unset the module
// runs on its in-memory stores.
type Config struct {
	// PostgresDSN enables the PostgreSQL stores when non-empty.
	PostgresDSN string
	// RedisURL enables the Redis user-content index when non-empty.
	RedisURL string
	// KafkaBrokers enables the Kafka audit publisher when non-empty.
	KafkaBrokers []string
	AuditTopic   string
	// OpsAddr is the listen address for the health and metrics endpoints.
	OpsAddr string
}

// FromEnv builds a Config from environment variables so embedding mains
// stay lean.
func FromEnv() Config {
	topic := os.Getenv("QNA_AUDIT_TOPIC")
	if topic == "" {
		topic = "qna.audit"
	}
	opsAddr := os.Getenv("QNA_OPS_ADDR")
	if opsAddr == "" {
		opsAddr = ":8081"
	}

	var brokers []string
	if raw := os.Getenv("QNA_KAFKA_BROKERS"); raw != "" {
		for _, broker := range strings.Split(raw, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				brokers = append(brokers, broker)
			}
		}
	}

	return Config{
		PostgresDSN:  os.Getenv("QNA_POSTGRES_DSN"),
		RedisURL:     os.Getenv("QNA_REDIS_URL"),
		KafkaBrokers: brokers,
		AuditTopic:   topic,
		OpsAddr:      opsAddr,
	}
}
