package cache

import (
	"context"

	"github.com/eko/gocache/lib/v4/store"
	redisStore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var S store.StoreInterface

func NewStore() error {
	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("cache.addr"),
		Password: viper.GetString("cache.password"),
		DB:       viper.GetInt("cache.db"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	S = redisStore.NewRedis(client)

	return nil
}
