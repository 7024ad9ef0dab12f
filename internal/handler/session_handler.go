// 本文件处理会话状态相关的 API 请求：当前会话、玩家昵称、搜索词
package handler

import (
	"github.com/gin-gonic/gin"

	"phone_sim_server/internal/dto/request"
	"phone_sim_server/internal/service/appstate"
)

// SessionHandler 会话状态请求处理器
type SessionHandler struct {
	state *appstate.State
}

func NewSessionHandler(state *appstate.State) *SessionHandler {
	return &SessionHandler{state: state}
}

// SetActiveContact 记录当前打开的会话
// POST /api/session/active-contact
// 打开会话后新到的该会话消息不再累计未读
func (h *SessionHandler) SetActiveContact(c *gin.Context) {
	var req request.ActiveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	h.state.SetActiveContact(req.ContactID)
	HandleSuccess(c, nil)
}

// SetPlayerNickname 修改玩家昵称
// POST /api/session/nickname
func (h *SessionHandler) SetPlayerNickname(c *gin.Context) {
	var req request.PlayerNicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	h.state.SetPlayerNickname(req.Nickname)
	HandleSuccess(c, nil)
}

// SetPendingSearch 记录玩家发起的浏览器搜索词
// POST /api/session/search
// 下一批搜索结果指令落库时会用它作为结果页标题
func (h *SessionHandler) SetPendingSearch(c *gin.Context) {
	var req request.PendingSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	h.state.SetPendingSearch(req.Term)
	HandleSuccess(c, nil)
}
