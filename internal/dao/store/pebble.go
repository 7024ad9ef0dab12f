// 本文件为 pebble 后端：嵌入式 KV，默认选择
// 键空间 doc:<会话>:<文档名>，一个文档一条记录
package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"phone_sim_server/pkg/errorx"
)

// Pebble 嵌入式后端
type Pebble struct {
	db      *pebble.DB
	session string
}

// OpenPebble 打开（必要时创建）数据目录
func OpenPebble(path, session string) (*Pebble, error) {
	if path == "" {
		path = "data/phone_sim"
	}
	if session == "" {
		session = "default"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeStoreError, "创建数据目录失败")
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeStoreError, "打开 pebble 失败")
	}
	return &Pebble{db: db, session: session}, nil
}

func (p *Pebble) key(name string) []byte {
	return []byte("doc:" + p.session + ":" + name)
}

func (p *Pebble) Read(_ context.Context, name string) ([]byte, error) {
	val, closer, err := p.db.Get(p.key(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errorx.ErrNotFound
		}
		return nil, errorx.Wrap(err, errorx.CodeStoreError, "读文档失败")
	}
	defer closer.Close()
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (p *Pebble) Write(_ context.Context, name string, data []byte) error {
	if err := p.db.Set(p.key(name), data, pebble.Sync); err != nil {
		return errorx.Wrap(err, errorx.CodeStoreError, "写文档失败")
	}
	return nil
}

func (p *Pebble) List(_ context.Context) ([]string, error) {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeStoreError, "遍历文档失败")
	}
	defer it.Close()

	prefix := []byte("doc:" + p.session + ":")
	var names []string
	for ok := it.First(); ok; ok = it.Next() {
		k := it.Key()
		if !bytes.HasPrefix(k, prefix) {
			continue
		}
		names = append(names, string(k[len(prefix):]))
	}
	return names, nil
}

func (p *Pebble) Ensure(ctx context.Context, initial map[string]string) error {
	for name, val := range initial {
		_, err := p.Read(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, errorx.ErrNotFound) {
			return err
		}
		if err := p.Write(ctx, name, []byte(val)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pebble) Close() error {
	return p.db.Close()
}
