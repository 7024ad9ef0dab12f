// 本文件为文档读写漏斗：所有写入都经过 读取-解码-修改-编码-写回 一条路径
// 每个文档一把互斥锁，保证同一文档同一时刻只有一个写者
package store

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"phone_sim_server/internal/model"
	"phone_sim_server/pkg/constants"
	"phone_sim_server/pkg/errorx"
)

// Documents 类型化文档存取入口
type Documents struct {
	store Store
	locks map[string]*sync.Mutex
}

// NewDocuments 为每个已知文档建锁
func NewDocuments(s Store) *Documents {
	locks := make(map[string]*sync.Mutex)
	for name := range InitialEntries() {
		locks[name] = &sync.Mutex{}
	}
	return &Documents{store: s, locks: locks}
}

// Ensure 初始化缺失文档
func (d *Documents) Ensure(ctx context.Context) error {
	return d.store.Ensure(ctx, InitialEntries())
}

// Close 关闭底层存储
func (d *Documents) Close() error {
	return d.store.Close()
}

// Raw 原样读出文档 JSON，快照接口用
func (d *Documents) Raw(ctx context.Context, name string) ([]byte, error) {
	if _, ok := d.locks[name]; !ok {
		return nil, errorx.Newf(errorx.CodeNotFound, "未知文档: %s", name)
	}
	return d.store.Read(ctx, name)
}

func (d *Documents) lock(name string) *sync.Mutex {
	return d.locks[name]
}

// readDoc 读取并解码文档
// 文档缺失按默认值处理；内容损坏时记日志并重置为默认值，不让坏数据卡死后续回合
func readDoc[T any](ctx context.Context, d *Documents, name string, defaults func(*T)) (T, error) {
	var out T
	data, err := d.store.Read(ctx, name)
	if err != nil {
		if errorx.IsNotFound(err) {
			defaults(&out)
			return out, nil
		}
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		zap.L().Error("文档内容损坏，重置为默认值", zap.String("doc", name), zap.Error(err))
		var zero T
		out = zero
	}
	defaults(&out)
	return out, nil
}

// updateDoc 持锁执行 读取-修改-写回
func updateDoc[T any](ctx context.Context, d *Documents, name string, defaults func(*T), fn func(*T) error) error {
	mu := d.lock(name)
	mu.Lock()
	defer mu.Unlock()

	doc, err := readDoc(ctx, d, name, defaults)
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeStoreError, "编码文档失败")
	}
	return d.store.Write(ctx, name, data)
}

func chatDefaults(db *model.ChatDB) {
	if *db == nil {
		*db = model.ChatDB{}
	}
}

func directoryDefaults(db *model.DirectoryDB) {
	if db.Contacts == nil {
		db.Contacts = map[string]string{}
	}
	if db.Groups == nil {
		db.Groups = map[string]*model.GroupEntry{}
	}
	if db.FriendRequests == nil {
		db.FriendRequests = []model.FriendRequest{}
	}
}

func avatarsDefaults(m *map[string]string) {
	if *m == nil {
		*m = map[string]string{}
	}
}

func emailsDefaults(db *model.EmailDB) {
	if *db == nil {
		*db = model.EmailDB{}
	}
}

func callLogsDefaults(db *model.CallLogDB) {
	if *db == nil {
		*db = model.CallLogDB{}
	}
}

func browserDefaults(db *model.BrowserDB) {
	if db.Pages == nil {
		db.Pages = map[string]*model.Page{}
	}
	if db.History == nil {
		db.History = []string{}
	}
	if db.Bookmarks == nil {
		db.Bookmarks = []model.Bookmark{}
	}
}

func forumDefaults(db *model.ForumDB) {
	if *db == nil {
		*db = model.ForumDB{}
	}
}

func liveDefaults(db *model.LiveCenterDB) {
	if db.Boards == nil {
		db.Boards = map[string]*model.LiveBoard{}
	}
}

func (d *Documents) Chat(ctx context.Context) (model.ChatDB, error) {
	return readDoc(ctx, d, constants.DocChatDB, chatDefaults)
}

func (d *Documents) UpdateChat(ctx context.Context, fn func(*model.ChatDB) error) error {
	return updateDoc(ctx, d, constants.DocChatDB, chatDefaults, fn)
}

func (d *Documents) Directory(ctx context.Context) (model.DirectoryDB, error) {
	return readDoc(ctx, d, constants.DocDirectory, directoryDefaults)
}

func (d *Documents) UpdateDirectory(ctx context.Context, fn func(*model.DirectoryDB) error) error {
	return updateDoc(ctx, d, constants.DocDirectory, directoryDefaults, fn)
}

func (d *Documents) Avatars(ctx context.Context) (map[string]string, error) {
	return readDoc(ctx, d, constants.DocAvatars, avatarsDefaults)
}

func (d *Documents) UpdateAvatars(ctx context.Context, fn func(*map[string]string) error) error {
	return updateDoc(ctx, d, constants.DocAvatars, avatarsDefaults, fn)
}

func (d *Documents) Emails(ctx context.Context) (model.EmailDB, error) {
	return readDoc(ctx, d, constants.DocEmails, emailsDefaults)
}

func (d *Documents) UpdateEmails(ctx context.Context, fn func(*model.EmailDB) error) error {
	return updateDoc(ctx, d, constants.DocEmails, emailsDefaults, fn)
}

func (d *Documents) CallLogs(ctx context.Context) (model.CallLogDB, error) {
	return readDoc(ctx, d, constants.DocCallLogs, callLogsDefaults)
}

func (d *Documents) UpdateCallLogs(ctx context.Context, fn func(*model.CallLogDB) error) error {
	return updateDoc(ctx, d, constants.DocCallLogs, callLogsDefaults, fn)
}

func (d *Documents) Browser(ctx context.Context) (model.BrowserDB, error) {
	return readDoc(ctx, d, constants.DocBrowser, browserDefaults)
}

func (d *Documents) UpdateBrowser(ctx context.Context, fn func(*model.BrowserDB) error) error {
	return updateDoc(ctx, d, constants.DocBrowser, browserDefaults, fn)
}

func (d *Documents) Forum(ctx context.Context) (model.ForumDB, error) {
	return readDoc(ctx, d, constants.DocForum, forumDefaults)
}

func (d *Documents) UpdateForum(ctx context.Context, fn func(*model.ForumDB) error) error {
	return updateDoc(ctx, d, constants.DocForum, forumDefaults, fn)
}

func (d *Documents) Live(ctx context.Context) (model.LiveCenterDB, error) {
	return readDoc(ctx, d, constants.DocLiveCenter, liveDefaults)
}

func (d *Documents) UpdateLive(ctx context.Context, fn func(*model.LiveCenterDB) error) error {
	return updateDoc(ctx, d, constants.DocLiveCenter, liveDefaults, fn)
}
