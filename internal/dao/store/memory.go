// 本文件为内存后端：测试与临时会话用
package store

import (
	"context"
	"sync"

	"phone_sim_server/pkg/errorx"
)

// Memory map 后端，进程退出即丢
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Read(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[name]
	if !ok {
		return nil, errorx.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) Write(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.docs[name] = cp
	return nil
}

func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.docs))
	for name := range m.docs {
		names = append(names, name)
	}
	return names, nil
}

func (m *Memory) Ensure(_ context.Context, initial map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, val := range initial {
		if _, ok := m.docs[name]; !ok {
			m.docs[name] = []byte(val)
		}
	}
	return nil
}

func (m *Memory) Close() error { return nil }
