// 本文件定义会话状态相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes 注册会话状态路由
func (rt *Router) RegisterSessionRoutes(rg *gin.RouterGroup) {
	sessionGroup := rg.Group("/session")
	{
		sessionGroup.POST("/active-contact", rt.handlers.Session.SetActiveContact) // 记录当前会话
		sessionGroup.POST("/nickname", rt.handlers.Session.SetPlayerNickname)      // 修改玩家昵称
		sessionGroup.POST("/search", rt.handlers.Session.SetPendingSearch)         // 记录搜索词
	}
}
