// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"phone_sim_server/internal/gateway/websocket"
	"phone_sim_server/internal/handler"
	"phone_sim_server/internal/infrastructure/logger"
)

// Router 路由管理器，持有 Handler 聚合与推送网关
type Router struct {
	handlers *handler.Handlers
	hub      *websocket.Hub
}

func NewRouter(handlers *handler.Handlers, hub *websocket.Hub) *Router {
	return &Router{handlers: handlers, hub: hub}
}

// Engine 构建 Gin 引擎：日志/恢复中间件、CORS、全部业务路由
func (rt *Router) Engine() *gin.Engine {
	engine := gin.New()

	// 自定义 Zap 日志中间件，替代 Gin 默认日志
	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	// 渲染端跑在宿主 iframe 里，放开跨域
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	rt.RegisterRoutes(engine)
	return engine
}

// RegisterRoutes 按模块分别注册各个路由组
func (rt *Router) RegisterRoutes(engine *gin.Engine) {
	api := engine.Group("/api")
	rt.RegisterTurnRoutes(api)    // 回合对账路由
	rt.RegisterStageRoutes(api)   // 暂存与提交路由
	rt.RegisterActionRoutes(api)  // 本地操作路由
	rt.RegisterDataRoutes(api)    // 数据快照路由
	rt.RegisterSessionRoutes(api) // 会话状态路由
	rt.RegisterWsRoutes(engine)   // WebSocket 路由
}
