// 本文件定义浏览器文档：页面缓存、持久历史、书签、搜索目录
package model

import "time"

// BrowserDB 浏览器文档
type BrowserDB struct {
	Pages     map[string]*Page `json:"pages,omitempty"` // 按 URL 缓存的页面
	History   []string         `json:"history,omitempty"`
	Bookmarks []Bookmark       `json:"bookmarks,omitempty"`
	Directory *SearchDirectory `json:"directory,omitempty"` // 最近一次搜索结果快照
}

// Page 一个缓存页面
type Page struct {
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Type        string      `json:"type"` // 固定为 "page"
	Content     []PageBlock `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
	SourceMsgID string      `json:"sourceMsgId,omitempty"`
}

// PageBlock 页面内容块，text 字段经过富内容分词
type PageBlock struct {
	Type string  `json:"type,omitempty"`
	Text Content `json:"text"`
}

// Bookmark 一条书签
type Bookmark struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchDirectory 最近一次搜索的结果集
type SearchDirectory struct {
	Title       string         `json:"title"`
	Content     []SearchResult `json:"content"`
	Timestamp   time.Time      `json:"timestamp"`
	SourceMsgID string         `json:"sourceMsgId,omitempty"`
}

// SearchResult 一条搜索结果
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// AppendHistory 追加历史，与上一条相同的 URL 不重复记录
func (b *BrowserDB) AppendHistory(url string) {
	if n := len(b.History); n > 0 && b.History[n-1] == url {
		return
	}
	b.History = append(b.History, url)
}
