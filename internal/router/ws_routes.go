// 本文件定义 WebSocket 事件流路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWsRoutes 注册 WebSocket 路由
func (rt *Router) RegisterWsRoutes(engine *gin.Engine) {
	engine.GET("/ws", rt.hub.Connect) // 事件推送长连接
}
