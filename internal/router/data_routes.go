// 本文件定义数据快照查询路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterDataRoutes 注册数据快照路由
func (rt *Router) RegisterDataRoutes(rg *gin.RouterGroup) {
	dataGroup := rg.Group("/data")
	{
		dataGroup.GET("/contacts", rt.handlers.Data.Contacts)              // 联系人/群聊全量
		dataGroup.GET("/directory", rt.handlers.Data.Directory)            // 联系人目录
		dataGroup.GET("/moments", rt.handlers.Data.Moments)                // 动态平铺
		dataGroup.GET("/emails", rt.handlers.Data.Emails)                  // 邮件
		dataGroup.GET("/calllogs", rt.handlers.Data.CallLogs)              // 通话记录
		dataGroup.GET("/browser", rt.handlers.Data.Browser)                // 浏览器数据
		dataGroup.GET("/forum", rt.handlers.Data.Forum)                    // 论坛
		dataGroup.GET("/live", rt.handlers.Data.Live)                      // 直播中心
		dataGroup.GET("/friend-requests", rt.handlers.Data.FriendRequests) // 待处理好友请求
		dataGroup.GET("/staged", rt.handlers.Data.Staged)                  // 暂存区快照
	}
}
