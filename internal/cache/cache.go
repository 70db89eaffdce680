// Package cache provides file-backed caching with a TTL, used to keep
// market-data and news lookups cheap across process restarts.
package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Manager struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

func New(dir string, ttl time.Duration, enabled bool) *Manager {
	return &Manager{
		dir:     dir,
		ttl:     ttl,
		enabled: enabled,
	}
}

func (m *Manager) key(source, method string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s_%s_%x.json", source, method, hash)
}

// Get unmarshals a cached entry into result, returning false when the entry
// is missing, expired, or unreadable.
func (m *Manager) Get(source, method string, params interface{}, result interface{}) bool {
	if !m.enabled {
		return false
	}

	path := filepath.Join(m.dir, m.key(source, method, params))

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > m.ttl {
		os.Remove(path)
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, result) == nil
}

func (m *Manager) Set(source, method string, params interface{}, data interface{}) error {
	if !m.enabled {
		return nil
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.dir, m.key(source, method, params)), jsonData, 0o644)
}
