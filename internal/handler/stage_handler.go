// 本文件处理暂存流水线相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"phone_sim_server/internal/dto/request"
	"phone_sim_server/internal/service/staging"
	"phone_sim_server/pkg/errorx"
)

// StageHandler 暂存与提交请求处理器
type StageHandler struct {
	stagingSvc *staging.Service
}

func NewStageHandler(stagingSvc *staging.Service) *StageHandler {
	return &StageHandler{stagingSvc: stagingSvc}
}

// StageMessage 暂存一条玩家消息
// POST /api/stage/message
// 响应: 带占位时间戳的暂存消息
func (h *StageHandler) StageMessage(c *gin.Context) {
	var req request.StageMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	msg := h.stagingSvc.StageMessage(req.ContactID, req.Content, req.ReplyingTo, req.DescriptionForAI)
	HandleSuccess(c, msg)
}

// StageAction 暂存一条结构化操作
// POST /api/stage/action
func (h *StageHandler) StageAction(c *gin.Context) {
	var req request.StageActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if req.Type == "" {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "缺少操作类型"))
		return
	}
	h.stagingSvc.StageAction(req.StagedAction)
	HandleSuccess(c, nil)
}

// Commit 提交全部暂存项
// POST /api/commit
func (h *StageHandler) Commit(c *gin.Context) {
	if err := h.stagingSvc.Commit(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Reset 丢弃全部暂存项
// POST /api/stage/reset
func (h *StageHandler) Reset(c *gin.Context) {
	h.stagingSvc.Reset()
	HandleSuccess(c, nil)
}

// RespondFriendRequest 处理好友请求
// POST /api/friend-request/respond
func (h *StageHandler) RespondFriendRequest(c *gin.Context) {
	var req request.FriendRequestRespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.stagingSvc.RespondFriendRequest(c.Request.Context(), req.UID, req.Action, req.FromID, req.FromName); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
