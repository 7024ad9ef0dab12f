// 本文件定义 Handler 聚合结构和构造函数
// 遵循依赖倒置原则，通过构造函数注入 Service 依赖
package handler

import (
	"phone_sim_server/internal/service/appstate"
	"phone_sim_server/internal/service/reconcile"
	"phone_sim_server/internal/service/staging"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Turn    *TurnHandler
	Stage   *StageHandler
	Action  *ActionHandler
	Data    *DataHandler
	Session *SessionHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(reconcileSvc *reconcile.Service, stagingSvc *staging.Service, state *appstate.State) *Handlers {
	return &Handlers{
		Turn:    NewTurnHandler(reconcileSvc),
		Stage:   NewStageHandler(stagingSvc),
		Action:  NewActionHandler(stagingSvc),
		Data:    NewDataHandler(state),
		Session: NewSessionHandler(state),
	}
}
