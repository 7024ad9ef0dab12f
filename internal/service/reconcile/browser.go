// 本文件处理浏览器指令：搜索结果目录、网页内容落库与历史维护
package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"phone_sim_server/internal/dto/command"
	"phone_sim_server/internal/model"
)

// applySearchResults 搜索结果写入目录快照，并为每个结果建占位页面
func (s *Service) applySearchResults(ctx context.Context, sourceID string, cmds []command.BrowserSearch) bool {
	title := "搜索结果"
	if term := s.state.TakePendingSearch(); term != "" {
		title = "搜索: " + term
	}

	results := make([]model.SearchResult, 0, len(cmds))
	for _, cmd := range cmds {
		results = append(results, model.SearchResult{Title: cmd.Title, URL: cmd.URL, Snippet: cmd.Snippet})
	}

	err := s.docs.UpdateBrowser(ctx, func(db *model.BrowserDB) error {
		db.Directory = &model.SearchDirectory{
			Title:       title,
			Content:     results,
			Timestamp:   time.Now(),
			SourceMsgID: sourceID,
		}
		for _, r := range results {
			if db.Pages[r.URL] == nil {
				db.Pages[r.URL] = &model.Page{
					URL:         r.URL,
					Title:       r.Title,
					Type:        "page",
					Content:     []model.PageBlock{},
					Timestamp:   time.Now(),
					SourceMsgID: sourceID,
				}
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("搜索结果写入失败", zap.Error(err))
		return false
	}
	return true
}

// applyWebpages 网页内容落库并追加历史
func (s *Service) applyWebpages(ctx context.Context, sourceID string, cmds []command.BrowserPage) bool {
	err := s.docs.UpdateBrowser(ctx, func(db *model.BrowserDB) error {
		for _, cmd := range cmds {
			db.Pages[cmd.URL] = &model.Page{
				URL:         cmd.URL,
				Title:       cmd.Title,
				Type:        "page",
				Content:     cmd.Content,
				Timestamp:   time.Now(),
				SourceMsgID: sourceID,
			}
			db.AppendHistory(cmd.URL)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("网页内容写入失败", zap.Error(err))
		return false
	}
	return true
}

// deleteBrowserBySource 整回合删除：该来源的页面、历史项和搜索目录
func (s *Service) deleteBrowserBySource(ctx context.Context, sourceID string) {
	err := s.docs.UpdateBrowser(ctx, func(db *model.BrowserDB) error {
		keptHistory := db.History[:0]
		for _, url := range db.History {
			page := db.Pages[url]
			if page == nil || page.SourceMsgID != sourceID {
				keptHistory = append(keptHistory, url)
			}
		}
		db.History = keptHistory

		for url, page := range db.Pages {
			if page != nil && page.SourceMsgID == sourceID {
				delete(db.Pages, url)
			}
		}
		if db.Directory != nil && db.Directory.SourceMsgID == sourceID {
			db.Directory = nil
		}
		return nil
	})
	if err != nil {
		zap.L().Error("浏览器数据清理失败", zap.Error(err))
	}
}
