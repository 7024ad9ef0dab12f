// 本文件处理邮件指令
package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"phone_sim_server/internal/dto/command"
	"phone_sim_server/internal/model"
	"phone_sim_server/pkg/constants"
)

// applyEmails 清理同源旧邮件后追加新邮件，每封弹一次横幅
// 没有邮件指令时也要执行清理
func (s *Service) applyEmails(ctx context.Context, sourceID string, cmds []command.Email) bool {
	changed := len(cmds) > 0
	err := s.docs.UpdateEmails(ctx, func(db *model.EmailDB) error {
		kept := (*db)[:0]
		for _, e := range *db {
			if e.SourceMsgID != sourceID {
				kept = append(kept, e)
			}
		}
		if len(kept) != len(*db) {
			changed = true
		}
		*db = kept

		for _, cmd := range cmds {
			var attachment *model.Attachment
			if cmd.AttachmentName != "" {
				attachment = &model.Attachment{Name: cmd.AttachmentName, Description: cmd.AttachmentDesc}
			}
			*db = append(*db, model.Email{
				ID:          "email_" + newUID(),
				FromID:      cmd.FromID,
				FromName:    cmd.FromName,
				Subject:     cmd.Subject,
				Content:     cmd.Content,
				Timestamp:   time.Now(),
				Attachment:  attachment,
				SourceMsgID: sourceID,
			})
		}
		return nil
	})
	if err != nil {
		zap.L().Error("邮件写入失败", zap.Error(err))
		return false
	}

	for _, cmd := range cmds {
		s.notifier.ShowNotification("email", cmd.FromName, cmd.Subject, constants.AppEmail)
	}
	return changed
}

// deleteEmailsBySource 整回合删除时清理邮件
func (s *Service) deleteEmailsBySource(ctx context.Context, sourceID string) {
	err := s.docs.UpdateEmails(ctx, func(db *model.EmailDB) error {
		kept := (*db)[:0]
		for _, e := range *db {
			if e.SourceMsgID != sourceID {
				kept = append(kept, e)
			}
		}
		*db = kept
		return nil
	})
	if err != nil {
		zap.L().Error("邮件清理失败", zap.Error(err))
	}
}
