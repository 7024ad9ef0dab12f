// Package staging 实现玩家操作的暂存与提交流水线
// 玩家在界面上的发言和结构化操作先进入内存暂存区，点击提交时一次性落库，
// 并把操作摘要拼成系统提示回推生成宿主
package staging

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"phone_sim_server/internal/dao/store"
	"phone_sim_server/internal/infrastructure/agent"
	"phone_sim_server/internal/model"
	"phone_sim_server/internal/service/appstate"
	"phone_sim_server/internal/service/reconcile"
	"phone_sim_server/pkg/constants"
)

// Service 暂存与提交流水线
type Service struct {
	state    *appstate.State
	docs     *store.Documents
	notifier reconcile.Notifier
	trigger  agent.Trigger
}

func New(state *appstate.State, notifier reconcile.Notifier, trigger agent.Trigger) *Service {
	return &Service{state: state, docs: state.Docs(), notifier: notifier, trigger: trigger}
}

// StageMessage 暂存一条玩家消息
// 时间戳为占位值（当前会话末尾 +1 分钟），转账/红包打上未领取状态
// descriptionForAI 为富内容的自然语言描述，仅用于提交摘要
func (s *Service) StageMessage(contactID string, content model.Content, replyingTo, descriptionForAI string) model.Message {
	content.MarkUnclaimed()
	msg := model.Message{
		UID:        "staged_" + uuid.NewString(),
		Timestamp:  s.state.NextPlayerTimestamp(),
		SenderID:   constants.PlayerID,
		Content:    content,
		ReplyingTo: replyingTo,
	}
	s.state.AppendStagedMessage(model.StagedMessage{
		ContactID:        contactID,
		DescriptionForAI: descriptionForAI,
		Message:          msg,
	})
	return msg
}

// StageAction 暂存一条玩家结构化操作
func (s *Service) StageAction(a model.StagedAction) {
	s.state.AppendStagedAction(a)
}

// Reset 丢弃全部暂存项
func (s *Service) Reset() {
	s.state.ClearStaged()
}

// RespondFriendRequest 处理好友请求：状态立即写入目录文档，
// 同时暂存一条操作让下次提交时告知生成端
func (s *Service) RespondFriendRequest(ctx context.Context, uid, action, fromID, fromName string) error {
	status := model.RequestDeclined
	if action == "accept" {
		status = model.RequestAccepted
	}
	err := s.docs.UpdateDirectory(ctx, func(db *model.DirectoryDB) error {
		for i := range db.FriendRequests {
			if db.FriendRequests[i].UID == uid {
				db.FriendRequests[i].Status = status
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.state.AppendStagedAction(model.StagedAction{
		Type:     model.ActionFriendRequestResponse,
		UID:      uid,
		Action:   action,
		FromID:   fromID,
		FromName: fromName,
	})
	s.refresh(ctx, reconcile.Refresh{Chat: true})
	return nil
}

// refresh 重建内存镜像并推送刷新信号
func (s *Service) refresh(ctx context.Context, r reconcile.Refresh) {
	if err := s.state.RefreshAll(ctx); err != nil {
		zap.L().Error("重建内存镜像失败", zap.Error(err))
	}
	s.notifier.SignalRefresh(r)
}

// contactName 联系人显示名，玩家自身用昵称
func (s *Service) contactName(id string) string {
	if id == constants.PlayerID {
		return s.state.PlayerNickname()
	}
	return s.state.ContactName(id)
}
