package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"phone_sim_server/internal/model"
	"phone_sim_server/pkg/constants"
)

func newTestDocs(t *testing.T) *Documents {
	t.Helper()
	docs := NewDocuments(NewMemory())
	require.NoError(t, docs.Ensure(context.Background()))
	return docs
}

func TestEnsureSeedsInitialShapes(t *testing.T) {
	docs := newTestDocs(t)
	ctx := context.Background()

	raw, err := docs.Raw(ctx, constants.DocEmails)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))

	raw, err = docs.Raw(ctx, constants.DocChatDB)
	require.NoError(t, err)
	require.Equal(t, "{}", string(raw))
}

func TestEnsureKeepsExistingDocument(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Write(ctx, constants.DocEmails, []byte(`[{"id":"e1"}]`)))

	docs := NewDocuments(mem)
	require.NoError(t, docs.Ensure(ctx))

	emails, err := docs.Emails(ctx)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	require.Equal(t, "e1", emails[0].ID)
}

func TestUpdateChatRoundTrip(t *testing.T) {
	docs := newTestDocs(t)
	ctx := context.Background()

	err := docs.UpdateChat(ctx, func(db *model.ChatDB) error {
		(*db)["npc1"] = &model.Contact{Profile: model.Profile{Nickname: "小李"}}
		return nil
	})
	require.NoError(t, err)

	db, err := docs.Chat(ctx)
	require.NoError(t, err)
	require.Equal(t, "小李", db["npc1"].Profile.Nickname)
}

func TestCorruptDocumentResetsToDefault(t *testing.T) {
	docs := newTestDocs(t)
	ctx := context.Background()
	require.NoError(t, docs.store.Write(ctx, constants.DocDirectory, []byte("not-json{{")))

	dir, err := docs.Directory(ctx)
	require.NoError(t, err)
	require.NotNil(t, dir.Contacts)
	require.Empty(t, dir.Contacts)

	// 坏文档在下一次写入时被正常覆盖
	err = docs.UpdateDirectory(ctx, func(db *model.DirectoryDB) error {
		db.SetContact("小李", "npc1")
		return nil
	})
	require.NoError(t, err)

	dir, err = docs.Directory(ctx)
	require.NoError(t, err)
	require.Equal(t, "npc1", dir.Contacts["小李"])
}

func TestRawRejectsUnknownDocument(t *testing.T) {
	docs := newTestDocs(t)
	_, err := docs.Raw(context.Background(), "没有这个文档")
	require.Error(t, err)
}
