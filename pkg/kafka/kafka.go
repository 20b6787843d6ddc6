package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const DefaultActivityTopic = "catalog-activity"

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
	Topic string   `envconfig:"KAFKA_ACTIVITY_TOPIC" default:"catalog-activity"`
}

// Enabled reports whether brokers are configured.
func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func (c Config) ActivityTopic() string {
	if c.Topic == "" {
		return DefaultActivityTopic
	}
	return c.Topic
}

type ActivityKind string

const (
	KindLogin      ActivityKind = "login"
	KindLogout     ActivityKind = "logout"
	KindBorrow     ActivityKind = "borrow"
	KindReturn     ActivityKind = "return"
	KindFavorite   ActivityKind = "favorite"
	KindUnfavorite ActivityKind = "unfavorite"
	KindBookAdd    ActivityKind = "book_add"
	KindBookEdit   ActivityKind = "book_edit"
	KindBookDelete ActivityKind = "book_delete"
)

// ActivityEvent is one user action taken through the client.
type ActivityEvent struct {
	Kind   ActivityKind `json:"kind"`
	Email  string       `json:"email,omitempty"`
	BookID int          `json:"bookId,omitempty"`
	At     time.Time    `json:"at"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Timeout = 5 * time.Second

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
