// Package redis connects the Redis backend of the credential store using
// github.com/redis/go-redis/v9.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := credstore.NewRedis(client, credstore.WithKeyPrefix(cfg.KeyPrefix))
//
// Healthcheck adapts the client for a readiness probe.
package redis
