// 本文件处理朋友圈动态与资料更新
package reconcile

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"phone_sim_server/internal/dto/command"
	"phone_sim_server/internal/model"
)

// applyMoments 新动态与动态更新落库
// 新动态先入库，同一回合内针对它们的点赞/评论随后就能命中
func (s *Service) applyMoments(ctx context.Context, sourceID string, moments []command.Moment, updates []command.MomentUpdate) bool {
	changed := len(moments) > 0 || len(updates) > 0
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		// 幂等清理
		for _, c := range *db {
			if c == nil {
				continue
			}
			kept := c.Moments[:0]
			for _, m := range c.Moments {
				if m.SourceMsgID != sourceID {
					kept = append(kept, m)
				}
			}
			if len(kept) != len(c.Moments) {
				changed = true
			}
			c.Moments = kept
		}

		for _, cmd := range moments {
			poster := (*db)[cmd.PosterID]
			if poster == nil {
				name := cmd.PosterName
				if name == "" {
					name = cmd.PosterID
				}
				poster = &model.Contact{Profile: model.Profile{Nickname: name, Note: name}}
				(*db)[cmd.PosterID] = poster
			}

			// momentId 全局唯一：同 ID 旧动态被替换
			for i, m := range poster.Moments {
				if m.MomentID == cmd.MomentID {
					poster.Moments = append(poster.Moments[:i], poster.Moments[i+1:]...)
					break
				}
			}

			poster.Moments = append(poster.Moments, model.Moment{
				MomentID:    cmd.MomentID,
				PosterID:    cmd.PosterID,
				PosterName:  cmd.PosterName,
				Content:     cmd.Content,
				Images:      cmd.Images,
				Location:    cmd.Location,
				Likes:       cmd.Likes,
				Comments:    cmd.Comments,
				Timestamp:   s.state.Synthesize(cmd.Time, time.Time{}),
				SourceMsgID: sourceID,
			})
		}

		for _, cmd := range updates {
			target := findMoment(*db, cmd.MomentID)
			if target == nil {
				zap.L().Warn("动态不存在，更新跳过", zap.String("momentId", cmd.MomentID))
				continue
			}
			switch cmd.Action {
			case "like":
				target.AddLike(cmd.ActorID)
			case "comment":
				target.Comments = append(target.Comments, model.MomentComment{
					UID:         "comment_" + newUID(),
					CommenterID: cmd.ActorID,
					Text:        cmd.Content,
				})
			}
		}

		// 每联系人的动态按时间倒序
		for _, c := range *db {
			if c == nil {
				continue
			}
			sort.SliceStable(c.Moments, func(i, j int) bool {
				return c.Moments[i].Timestamp.After(c.Moments[j].Timestamp)
			})
		}
		return nil
	})
	if err != nil {
		zap.L().Error("动态写入失败", zap.Error(err))
		return false
	}
	return changed
}

// applyProfileUpdates 签名/封面更新，联系人不存在则跳过
func (s *Service) applyProfileUpdates(ctx context.Context, cmds []command.ProfileUpdate) bool {
	err := s.docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		for _, cmd := range cmds {
			c := (*db)[cmd.ProfileID]
			if c == nil {
				zap.L().Warn("联系人不存在，资料更新跳过", zap.String("profileId", cmd.ProfileID))
				continue
			}
			if cmd.Bio != "" {
				c.Profile.Bio = cmd.Bio
			}
			if cmd.CoverImage != "" {
				c.Profile.CoverImage = cmd.CoverImage
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("资料更新失败", zap.Error(err))
		return false
	}
	return true
}

func findMoment(db model.ChatDB, momentID string) *model.Moment {
	for _, c := range db {
		if c == nil {
			continue
		}
		for i := range c.Moments {
			if c.Moments[i].MomentID == momentID {
				return &c.Moments[i]
			}
		}
	}
	return nil
}
