// Package store 提供命名文档的持久化边界
// 每个文档以完整 JSON 文本存取，后端可选 pebble / redis / memory
package store

import (
	"context"

	"phone_sim_server/internal/config"
	"phone_sim_server/pkg/constants"
	"phone_sim_server/pkg/errorx"
)

// Store 命名文档存取接口
// Read 在文档不存在时返回 errorx.ErrNotFound
type Store interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	List(ctx context.Context) ([]string, error)
	// Ensure 为缺失的文档写入初始 JSON，已有文档不动
	Ensure(ctx context.Context, initial map[string]string) error
	Close() error
}

// InitialEntries 全量文档的初始形态：数组型 "[]"，对象型 "{}"
func InitialEntries() map[string]string {
	return map[string]string{
		constants.DocChatDB:     "{}",
		constants.DocDirectory:  "{}",
		constants.DocAvatars:    "{}",
		constants.DocEmails:     "[]",
		constants.DocCallLogs:   "[]",
		constants.DocBrowser:    "{}",
		constants.DocForum:      "{}",
		constants.DocLiveCenter: "{}",
	}
}

// Open 按配置选择后端
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "pebble", "":
		return OpenPebble(cfg.PebblePath, cfg.Session)
	case "redis":
		return OpenRedis(cfg)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的存储后端: %s", cfg.Backend)
	}
}
