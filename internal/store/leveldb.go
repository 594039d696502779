// Package store 提供本地持久化 KV 存储，用于保存待补偿的链下操作。
package store

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	// ErrNotFound key 不存在
	ErrNotFound = errors.New("store: key not found")

	// ErrShutdown 存储已关闭
	ErrShutdown = errors.New("store: closed")
)

// Entry 一条键值对
type Entry struct {
	Key   string
	Value []byte
}

// LevelDB 基于 leveldb 的 KV 存储，所有调用串行执行
type LevelDB struct {
	sync.Mutex
	db       *leveldb.DB
	shutdown bool
}

// Open 打开或创建 path 下的 leveldb
func Open(path string) (*LevelDB, error) {
	if path == "" {
		return nil, errors.Errorf("store path not provided")
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, errors.WithStack(err)
	}

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", path)
	}

	return &LevelDB{db: db}, nil
}

// Get 读取 key，不存在时返回 ErrNotFound
func (l *LevelDB) Get(key string) ([]byte, error) {
	l.Lock()
	defer l.Unlock()
	if l.shutdown {
		return nil, ErrShutdown
	}

	b, err := l.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.WithStack(err)
	}
	return b, nil
}

// Put 写入 key，同步落盘
func (l *LevelDB) Put(key string, value []byte) error {
	l.Lock()
	defer l.Unlock()
	if l.shutdown {
		return ErrShutdown
	}

	return errors.WithStack(l.db.Put([]byte(key), value, nil))
}

// Delete 删除 key，key 不存在时不报错
func (l *LevelDB) Delete(key string) error {
	l.Lock()
	defer l.Unlock()
	if l.shutdown {
		return ErrShutdown
	}

	return errors.WithStack(l.db.Delete([]byte(key), nil))
}

// List 按 key 顺序返回前缀为 prefix 的所有条目
func (l *LevelDB) List(prefix string) ([]Entry, error) {
	l.Lock()
	defer l.Unlock()
	if l.shutdown {
		return nil, ErrShutdown
	}

	iter := l.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	var entries []Entry
	for iter.Next() {
		// 迭代器复用底层切片
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		entries = append(entries, Entry{Key: string(iter.Key()), Value: value})
	}
	if err := iter.Error(); err != nil {
		return nil, errors.WithStack(err)
	}
	return entries, nil
}

// Close 关闭存储
func (l *LevelDB) Close() error {
	l.Lock()
	defer l.Unlock()
	if l.shutdown {
		return nil
	}
	l.shutdown = true
	return l.db.Close()
}
