package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/agoradev/agora-backend/internal/logger"
)

const (
	EventLevelUp           = "level_up"
	EventFrontpagePromoted = "frontpage_promoted"
)

// Event is the signal handed to the notification collaborator. Delivery
// (websocket, email, push) happens outside this process.
type Event struct {
	Kind      string    `json:"kind"`
	UserID    uuid.UUID `json:"user_id,omitempty"`
	EntityID  uuid.UUID `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Bus interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewBus(log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := strings.TrimSpace(os.Getenv("NOTIFY_CHANNEL"))
	if channel == "" {
		channel = "notifications"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisBus{log: log.With("service", "NotifyBus"), rdb: rdb, channel: channel}, nil
}

func (b *redisBus) Publish(ctx context.Context, event Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("notify bus not initialized")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) Close() error { return b.rdb.Close() }

// NopBus drops events; used when redis is not configured and in tests.
type NopBus struct{}

func (NopBus) Publish(context.Context, Event) error { return nil }
func (NopBus) Close() error                         { return nil }
