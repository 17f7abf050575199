package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"civic-go-admin/pkg/config"

	"github.com/redis/go-redis/v9"
)

var (
	rdb         *redis.Client
	initOnce    sync.Once
	initialized bool
	initErr     error
	ErrNil      = errors.New("redis: nil")
)

// InitRedis 初始化 Redis 客户端
func InitRedis(cfg config.RedisConfig) error {
	initOnce.Do(func() {
		log.Printf("Initializing Redis client with address: %s, DB: %d", cfg.Addr, cfg.DB)

		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			PoolSize:     cfg.PoolSize,
		})

		// 测试连接
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			initErr = fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
			log.Printf("ERROR: %v", initErr)
			return
		}

		initialized = true
		log.Printf("Successfully connected to Redis at %s, DB: %d", cfg.Addr, cfg.DB)
	})

	return initErr
}

// GetClient 获取 Redis 客户端实例，未初始化时返回 nil
func GetClient() *redis.Client {
	if !initialized {
		return nil
	}
	return rdb
}

// IsNilErr 判断是否为键不存在错误
func IsNilErr(err error) bool {
	return errors.Is(err, redis.Nil) || errors.Is(err, ErrNil)
}
