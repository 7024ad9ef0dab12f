// 本文件定义回合对账相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterTurnRoutes 注册回合处理路由
func (rt *Router) RegisterTurnRoutes(rg *gin.RouterGroup) {
	rg.POST("/turn", rt.handlers.Turn.ProcessTurn)       // 处理/重新处理一个回合
	rg.DELETE("/turn/:id", rt.handlers.Turn.DeleteTurn)  // 整回合删除
}
