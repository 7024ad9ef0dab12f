// 本文件定义即时生效本地操作的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterActionRoutes 注册本地操作路由
func (rt *Router) RegisterActionRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/message")
	{
		messageGroup.POST("/delete", rt.handlers.Action.DeleteMessage) // 删除消息
		messageGroup.POST("/edit", rt.handlers.Action.EditMessage)     // 修改消息
		messageGroup.POST("/recall", rt.handlers.Action.RecallMessage) // 撤回消息
	}

	emailGroup := rg.Group("/email")
	{
		emailGroup.POST("/read", rt.handlers.Action.MarkEmailRead) // 邮件已读
		emailGroup.POST("/delete", rt.handlers.Action.DeleteEmail) // 删除邮件
	}

	callGroup := rg.Group("/call")
	{
		callGroup.POST("/log", rt.handlers.Action.LogCall)           // 追加通话记录
		callGroup.POST("/delete", rt.handlers.Action.DeleteCallLog)  // 删除通话记录
		callGroup.POST("/end", rt.handlers.Action.AddCallEndMessage) // 通话结束消息
	}

	contactGroup := rg.Group("/contact")
	{
		contactGroup.POST("/add", rt.handlers.Action.AddContact)            // 手动添加联系人
		contactGroup.POST("/delete", rt.handlers.Action.DeleteContact)      // 删除联系人
		contactGroup.POST("/unread/reset", rt.handlers.Action.ResetUnread)  // 未读清零
	}

	clearGroup := rg.Group("/clear")
	{
		clearGroup.POST("/chat", rt.handlers.Action.ClearChatHistory)        // 清空会话消息
		clearGroup.POST("/moments", rt.handlers.Action.ClearMoments)         // 清空动态
		clearGroup.POST("/forum", rt.handlers.Action.ClearForum)             // 清空论坛
		clearGroup.POST("/forum/board", rt.handlers.Action.DeleteForumBoard) // 删除单个板块
		clearGroup.POST("/live", rt.handlers.Action.ClearLive)               // 清空直播中心
	}

	browserGroup := rg.Group("/browser")
	{
		browserGroup.POST("/bookmark/toggle", rt.handlers.Action.ToggleBookmark)   // 书签开关
		browserGroup.POST("/bookmark/clear", rt.handlers.Action.ClearBookmarks)    // 清空书签
		browserGroup.POST("/history/delete", rt.handlers.Action.DeleteHistoryItem) // 删除历史记录
		browserGroup.POST("/history/clear", rt.handlers.Action.ClearHistory)       // 清空历史
	}
}
