// 本文件处理即时生效的本地操作请求：消息编辑、邮件维护、
// 通话记录、联系人增删、各类清空和浏览器书签/历史
package handler

import (
	"github.com/gin-gonic/gin"

	"phone_sim_server/internal/dto/request"
	"phone_sim_server/internal/model"
	"phone_sim_server/internal/service/staging"
)

// ActionHandler 本地操作请求处理器
type ActionHandler struct {
	stagingSvc *staging.Service
}

func NewActionHandler(stagingSvc *staging.Service) *ActionHandler {
	return &ActionHandler{stagingSvc: stagingSvc}
}

// DeleteMessage 按 uid 删除消息
// POST /api/message/delete
func (h *ActionHandler) DeleteMessage(c *gin.Context) {
	var req request.MessageUIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.DeleteMessage(c.Request.Context(), req.UID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// EditMessage 修改消息正文
// POST /api/message/edit
func (h *ActionHandler) EditMessage(c *gin.Context) {
	var req request.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.EditMessage(c.Request.Context(), req.UID, req.Content); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RecallMessage 撤回消息
// POST /api/message/recall
func (h *ActionHandler) RecallMessage(c *gin.Context) {
	var req request.MessageUIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.RecallMessage(c.Request.Context(), req.UID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// MarkEmailRead 邮件置为已读
// POST /api/email/read
func (h *ActionHandler) MarkEmailRead(c *gin.Context) {
	var req request.EmailIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.MarkEmailRead(c.Request.Context(), req.ID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteEmail 删除邮件
// POST /api/email/delete
func (h *ActionHandler) DeleteEmail(c *gin.Context) {
	var req request.EmailIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.DeleteEmail(c.Request.Context(), req.ID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// LogCall 追加通话记录
// POST /api/call/log
func (h *ActionHandler) LogCall(c *gin.Context) {
	var req request.LogCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	record := model.CallRecord{
		ContactID: req.ContactID,
		Name:      req.Name,
		CallType:  req.CallType,
		Duration:  req.Duration,
	}
	if err := h.stagingSvc.LogCall(c.Request.Context(), record); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteCallLog 按时间戳删除通话记录
// POST /api/call/delete
func (h *ActionHandler) DeleteCallLog(c *gin.Context) {
	var req request.DeleteCallLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.DeleteCallLog(c.Request.Context(), req.Timestamp); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// AddCallEndMessage 通话结束后补一条时长消息
// POST /api/call/end
func (h *ActionHandler) AddCallEndMessage(c *gin.Context) {
	var req request.CallEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.AddCallEndMessage(c.Request.Context(), req.ContactID, req.Duration); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ResetUnread 未读清零
// POST /api/contact/unread/reset
func (h *ActionHandler) ResetUnread(c *gin.Context) {
	var req request.ContactIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.ResetUnread(c.Request.Context(), req.ContactID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// AddContact 手动添加联系人
// POST /api/contact/add
func (h *ActionHandler) AddContact(c *gin.Context) {
	var req request.AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.AddContact(c.Request.Context(), req.ID, req.Nickname); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteContact 删除联系人
// POST /api/contact/delete
func (h *ActionHandler) DeleteContact(c *gin.Context) {
	var req request.ContactIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.DeleteContact(c.Request.Context(), req.ContactID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ClearChatHistory 清空会话消息，contact_id 为空时清空全部
// POST /api/clear/chat
func (h *ActionHandler) ClearChatHistory(c *gin.Context) {
	var req request.ActiveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.ClearChatHistory(c.Request.Context(), req.ContactID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ClearMoments 清空全部动态
// POST /api/clear/moments
func (h *ActionHandler) ClearMoments(c *gin.Context) {
	if err := h.stagingSvc.ClearMoments(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ClearForum 清空论坛
// POST /api/clear/forum
func (h *ActionHandler) ClearForum(c *gin.Context) {
	if err := h.stagingSvc.ClearForum(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteForumBoard 删除单个论坛板块
// POST /api/clear/forum/board
func (h *ActionHandler) DeleteForumBoard(c *gin.Context) {
	var req request.ForumBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.DeleteForumBoard(c.Request.Context(), req.BoardID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ClearLive 清空直播中心
// POST /api/clear/live
func (h *ActionHandler) ClearLive(c *gin.Context) {
	if err := h.stagingSvc.ClearLive(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ToggleBookmark 书签开关
// POST /api/browser/bookmark/toggle
// 响应: {"bookmarked": bool} 操作后该 URL 是否在书签中
func (h *ActionHandler) ToggleBookmark(c *gin.Context) {
	var req request.BookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	bookmarked, err := h.stagingSvc.ToggleBookmark(c.Request.Context(), req.URL, req.Title)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"bookmarked": bookmarked})
}

// DeleteHistoryItem 删除一条浏览历史
// POST /api/browser/history/delete
func (h *ActionHandler) DeleteHistoryItem(c *gin.Context) {
	var req request.HistoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.DeleteHistoryItem(c.Request.Context(), req.URL); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ClearHistory 清空浏览历史
// POST /api/browser/history/clear
func (h *ActionHandler) ClearHistory(c *gin.Context) {
	if err := h.stagingSvc.ClearHistory(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ClearBookmarks 清空书签
// POST /api/browser/bookmark/clear
func (h *ActionHandler) ClearBookmarks(c *gin.Context) {
	if err := h.stagingSvc.ClearBookmarks(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
