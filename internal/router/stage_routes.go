// 本文件定义暂存与提交相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterStageRoutes 注册暂存流水线路由
func (rt *Router) RegisterStageRoutes(rg *gin.RouterGroup) {
	stageGroup := rg.Group("/stage")
	{
		stageGroup.POST("/message", rt.handlers.Stage.StageMessage) // 暂存玩家消息
		stageGroup.POST("/action", rt.handlers.Stage.StageAction)   // 暂存结构化操作
		stageGroup.POST("/reset", rt.handlers.Stage.Reset)          // 丢弃全部暂存项
	}
	rg.POST("/commit", rt.handlers.Stage.Commit)                               // 提交暂存区
	rg.POST("/friend-request/respond", rt.handlers.Stage.RespondFriendRequest) // 处理好友请求
}
