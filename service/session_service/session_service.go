package session_service

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/pebble"
)

// 每个用户只保留一条会话记录：新的 refresh token 覆盖旧值，
// 多端登录会互相顶掉，这是单会话模型的预期行为。

var (
	db *pebble.DB
	mu sync.RWMutex
)

const keyPrefix = "session:"

type sessionRecord struct {
	RefreshToken string `json:"refreshToken"`
	UpdatedAt    int64  `json:"updatedAt"`
}

// Config 会话存储配置
type Config struct {
	DBPath string `yaml:"db_path" json:"db_path"`
}

// Init 打开会话数据库
func Init(dbPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if db != nil {
		return nil
	}
	if dbPath == "" {
		dbPath = "./data/sessions_pebble"
	}

	opts := &pebble.Options{
		Cache:                 pebble.NewCache(16 << 20), // 16MB 缓存
		DisableWAL:            false,
		FormatMajorVersion:    pebble.FormatNewest,
		L0CompactionThreshold: 2,
		MaxOpenFiles:          4096,
		MemTableSize:          16 << 20,
	}

	d, err := pebble.Open(dbPath, opts)
	if err != nil {
		return fmt.Errorf("打开会话数据库失败: %w", err)
	}
	db = d
	log.Printf("✅ 会话数据库初始化成功: %s", dbPath)
	return nil
}

// Close 关闭会话数据库
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SetActiveRefreshToken 覆盖写入用户当前唯一有效的 refresh token
func SetActiveRefreshToken(userID, token string, updatedAt int64) error {
	mu.RLock()
	defer mu.RUnlock()

	if db == nil {
		return errors.New("session store not initialized")
	}
	record := sessionRecord{RefreshToken: token, UpdatedAt: updatedAt}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return db.Set([]byte(keyPrefix+userID), data, pebble.Sync)
}

// Validate 比对提交的 token 与存储的唯一值，任何不一致（包括被顶掉的旧值）都判失败
func Validate(userID, token string) bool {
	mu.RLock()
	defer mu.RUnlock()

	if db == nil || token == "" {
		return false
	}
	value, closer, err := db.Get([]byte(keyPrefix + userID))
	if err != nil {
		return false
	}
	defer closer.Close()

	var record sessionRecord
	if err := json.Unmarshal(value, &record); err != nil {
		return false
	}
	if record.RefreshToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(record.RefreshToken), []byte(token)) == 1
}

// Clear 删除用户会话。登出路径上调用，找不到记录不算错。
func Clear(userID string) error {
	mu.RLock()
	defer mu.RUnlock()

	if db == nil {
		return errors.New("session store not initialized")
	}
	return db.Delete([]byte(keyPrefix+userID), pebble.Sync)
}
