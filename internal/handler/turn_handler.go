// 本文件处理回合对账相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"phone_sim_server/internal/dto/request"
	"phone_sim_server/internal/service/reconcile"
	"phone_sim_server/pkg/errorx"
)

// TurnHandler 回合请求处理器
type TurnHandler struct {
	reconcileSvc *reconcile.Service
}

func NewTurnHandler(reconcileSvc *reconcile.Service) *TurnHandler {
	return &TurnHandler{reconcileSvc: reconcileSvc}
}

// ProcessTurn 处理一个回合的原始文本
// POST /api/turn
// 新生成和编辑后的重新处理走同一入口，按 source_id 幂等
// 响应: reconcile.Refresh 本回合改动到的区域
func (h *TurnHandler) ProcessTurn(c *gin.Context) {
	var req request.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	refresh := h.reconcileSvc.ProcessTurn(c.Request.Context(), req.SourceID, req.Text)
	HandleSuccess(c, refresh)
}

// DeleteTurn 整回合删除
// DELETE /api/turn/:id
func (h *TurnHandler) DeleteTurn(c *gin.Context) {
	sourceID := c.Param("id")
	if sourceID == "" {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}
	h.reconcileSvc.DeleteBySource(c.Request.Context(), sourceID)
	HandleSuccess(c, nil)
}
