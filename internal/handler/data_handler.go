// 本文件处理文档快照查询请求，渲染端按区域拉取内存镜像
package handler

import (
	"github.com/gin-gonic/gin"

	"phone_sim_server/internal/service/appstate"
)

// DataHandler 数据快照请求处理器
type DataHandler struct {
	state *appstate.State
}

func NewDataHandler(state *appstate.State) *DataHandler {
	return &DataHandler{state: state}
}

// Contacts 联系人/群聊全量快照（含消息与动态）
// GET /api/data/contacts
func (h *DataHandler) Contacts(c *gin.Context) {
	HandleSuccess(c, h.state.Contacts())
}

// Directory 联系人目录（名称映射、群成员、好友请求）
// GET /api/data/directory
func (h *DataHandler) Directory(c *gin.Context) {
	HandleSuccess(c, h.state.Directory())
}

// Moments 全联系人动态平铺，按时间倒序
// GET /api/data/moments
func (h *DataHandler) Moments(c *gin.Context) {
	HandleSuccess(c, h.state.Moments())
}

// Emails 邮件列表
// GET /api/data/emails
func (h *DataHandler) Emails(c *gin.Context) {
	HandleSuccess(c, h.state.Emails())
}

// CallLogs 通话记录
// GET /api/data/calllogs
func (h *DataHandler) CallLogs(c *gin.Context) {
	HandleSuccess(c, h.state.CallLogs())
}

// Browser 浏览器数据（页面缓存、历史、书签、搜索目录）
// GET /api/data/browser
func (h *DataHandler) Browser(c *gin.Context) {
	HandleSuccess(c, h.state.Browser())
}

// Forum 论坛数据
// GET /api/data/forum
func (h *DataHandler) Forum(c *gin.Context) {
	HandleSuccess(c, h.state.Forum())
}

// Live 直播中心数据
// GET /api/data/live
func (h *DataHandler) Live(c *gin.Context) {
	HandleSuccess(c, h.state.Live())
}

// FriendRequests 待处理好友请求
// GET /api/data/friend-requests
func (h *DataHandler) FriendRequests(c *gin.Context) {
	HandleSuccess(c, h.state.PendingFriendRequests())
}

// Staged 暂存区快照，渲染端据此画出未提交的消息与操作
// GET /api/data/staged
func (h *DataHandler) Staged(c *gin.Context) {
	HandleSuccess(c, gin.H{
		"messages": h.state.StagedMessages(),
		"actions":  h.state.StagedActions(),
	})
}
