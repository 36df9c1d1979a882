package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hostel/config"
)

const pingTimeout = 3 * time.Second

// New connects to the primary Redis node and pings it once.
func New(cfg *config.Config) (*goRedis.Client, error) {
	primary := cfg.Cache.Redis.Primary

	client := goRedis.NewClient(&goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}

	log.Info().Int("db", primary.DB).Str("addr", client.Options().Addr).Msg("Connected to Redis")

	return client, nil
}
