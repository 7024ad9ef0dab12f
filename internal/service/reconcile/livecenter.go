// 本文件处理直播中心指令：目录整体替换、直播间状态整体覆盖
package reconcile

import (
	"context"

	"go.uber.org/zap"

	"phone_sim_server/internal/dto/command"
	"phone_sim_server/internal/model"
)

func (s *Service) applyLiveCenter(ctx context.Context, sourceID string, dirs []command.LiveDirectory, statuses []command.LiveStatus) bool {
	err := s.docs.UpdateLive(ctx, func(db *model.LiveCenterDB) error {
		for _, cmd := range dirs {
			board := db.Boards[cmd.BoardID]
			if board == nil {
				board = &model.LiveBoard{}
				db.Boards[cmd.BoardID] = board
			}
			if cmd.BoardName != "" {
				board.BoardName = cmd.BoardName
			}
			// 目录更新整体替换该板块的直播列表
			board.Streams = cmd.Streams
			board.SourceMsgID = sourceID
		}
		for _, cmd := range statuses {
			// 状态覆盖而非合并
			db.ActiveStream = &model.ActiveStream{
				StreamerID:   cmd.StreamerID,
				StreamerName: cmd.StreamerName,
				Title:        cmd.Title,
				Content:      cmd.Content,
				Viewers:      cmd.Viewers,
				Danmaku:      cmd.Danmaku,
				SourceMsgID:  sourceID,
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("直播中心写入失败", zap.Error(err))
		return false
	}
	return true
}

func (s *Service) deleteLiveBySource(ctx context.Context, sourceID string) {
	err := s.docs.UpdateLive(ctx, func(db *model.LiveCenterDB) error {
		for boardID, board := range db.Boards {
			if board != nil && board.SourceMsgID == sourceID {
				delete(db.Boards, boardID)
			}
		}
		if db.ActiveStream != nil && db.ActiveStream.SourceMsgID == sourceID {
			db.ActiveStream = nil
		}
		return nil
	})
	if err != nil {
		zap.L().Error("直播中心清理失败", zap.Error(err))
	}
}
