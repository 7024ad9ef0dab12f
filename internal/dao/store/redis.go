// 本文件为 redis 后端：共享主机部署时使用
// 一个文档一个 string 键，键空间 doc:<会话>:<文档名>
package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"

	"phone_sim_server/internal/config"
	"phone_sim_server/pkg/errorx"
)

// Redis go-redis v9 后端
type Redis struct {
	client  *redis.Client
	session string
}

// OpenRedis 建连并 Ping 验证
func OpenRedis(cfg config.StoreConfig) (*Redis, error) {
	session := cfg.Session
	if session == "" {
		session = "default"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost + ":" + strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDb,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeStoreError, "连接 redis 失败")
	}
	return &Redis{client: client, session: session}, nil
}

func (r *Redis) key(name string) string {
	return "doc:" + r.session + ":" + name
}

func (r *Redis) Read(ctx context.Context, name string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorx.ErrNotFound
		}
		return nil, errorx.Wrap(err, errorx.CodeStoreError, "读文档失败")
	}
	return val, nil
}

func (r *Redis) Write(ctx context.Context, name string, data []byte) error {
	if err := r.client.Set(ctx, r.key(name), data, 0).Err(); err != nil {
		return errorx.Wrap(err, errorx.CodeStoreError, "写文档失败")
	}
	return nil
}

func (r *Redis) List(ctx context.Context) ([]string, error) {
	prefix := "doc:" + r.session + ":"
	var names []string
	iter := r.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, iter.Val()[len(prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeStoreError, "遍历文档失败")
	}
	return names, nil
}

func (r *Redis) Ensure(ctx context.Context, initial map[string]string) error {
	for name, val := range initial {
		// SETNX：已有文档不动
		if err := r.client.SetNX(ctx, r.key(name), val, 0).Err(); err != nil {
			return errorx.Wrap(err, errorx.CodeStoreError, "初始化文档失败")
		}
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
