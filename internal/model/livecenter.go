// 本文件定义直播中心文档
// 线上格式把各板块与当前直播间混在同一个对象里（"active_stream" 是保留键），
// 这里拆成显式字段，序列化时再合回原格式
package model

import "encoding/json"

// ActiveStreamKey 当前直播间在文档对象中的保留键
const ActiveStreamKey = "active_stream"

// LiveCenterDB 直播中心文档
type LiveCenterDB struct {
	Boards       map[string]*LiveBoard
	ActiveStream *ActiveStream
}

// LiveBoard 一个直播板块
// 每次目录更新指令都会整体替换 Streams
type LiveBoard struct {
	BoardName   string       `json:"boardName,omitempty"`
	Streams     []LiveStream `json:"streams"`
	SourceMsgID string       `json:"sourceMsgId,omitempty"`
}

// LiveStream 目录中的一个直播间条目
type LiveStream struct {
	StreamerID   string `json:"streamerId"`
	StreamerName string `json:"streamerName,omitempty"`
	Title        string `json:"title"`
	Viewers      string `json:"viewers,omitempty"`
}

// ActiveStream 当前直播间状态，每条状态指令整体覆盖（不合并）
type ActiveStream struct {
	StreamerID   string    `json:"streamerId"`
	StreamerName string    `json:"streamerName,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content,omitempty"` // 直播画面/简介描述
	Viewers      string    `json:"viewers,omitempty"`
	Danmaku      []Danmaku `json:"danmaku,omitempty"`
	SourceMsgID  string    `json:"sourceMsgId,omitempty"`
}

// Danmaku 弹幕
type Danmaku struct {
	Sender  string `json:"sender,omitempty"`
	Content string `json:"content"`
}

// FindStream 跨板块按主播 ID 查找目录条目，返回条目及所在板块 ID
func (db *LiveCenterDB) FindStream(streamerID string) (*LiveStream, string) {
	for boardID, board := range db.Boards {
		if board == nil {
			continue
		}
		for i := range board.Streams {
			if board.Streams[i].StreamerID == streamerID {
				return &board.Streams[i], boardID
			}
		}
	}
	return nil, ""
}

// MarshalJSON 合并为单对象格式：各板块键 + "active_stream" 保留键
func (db LiveCenterDB) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(db.Boards)+1)
	for id, board := range db.Boards {
		out[id] = board
	}
	if db.ActiveStream != nil {
		out[ActiveStreamKey] = db.ActiveStream
	}
	return json.Marshal(out)
}

// UnmarshalJSON 从单对象格式拆出板块与当前直播间
func (db *LiveCenterDB) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	db.Boards = map[string]*LiveBoard{}
	db.ActiveStream = nil
	for key, val := range raw {
		if key == ActiveStreamKey {
			active := &ActiveStream{}
			if err := json.Unmarshal(val, active); err != nil {
				return err
			}
			db.ActiveStream = active
			continue
		}
		board := &LiveBoard{}
		if err := json.Unmarshal(val, board); err != nil {
			return err
		}
		db.Boards[key] = board
	}
	return nil
}
