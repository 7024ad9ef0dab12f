// Package agent 负责把玩家操作摘要推回生成宿主
// 提交流程产出的系统提示通过 HTTP 回调触发下一轮剧情生成
package agent

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"phone_sim_server/internal/config"
	"phone_sim_server/pkg/errorx"
)

// Trigger 生成触发边界，测试用桩替代
type Trigger interface {
	Generate(ctx context.Context, prompt string) error
}

// generateReq 回调请求体
type generateReq struct {
	Prompt string `json:"prompt"`
}

// HTTPClient 基于 resty 的触发客户端
type HTTPClient struct {
	client *resty.Client
	path   string
}

// NewHTTPClient 按配置构造触发客户端
func NewHTTPClient(cfg config.AgentConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	path := cfg.TriggerPath
	if path == "" {
		path = "/api/generate"
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &HTTPClient{client: client, path: path}
}

// Generate 把摘要提示词 POST 给宿主
func (c *HTTPClient) Generate(ctx context.Context, prompt string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(generateReq{Prompt: prompt}).
		Post(c.path)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeExternalCall, "触发生成失败")
	}
	if resp.IsError() {
		return errorx.Newf(errorx.CodeExternalCall, "触发生成失败: 宿主返回 %d", resp.StatusCode())
	}
	return nil
}
