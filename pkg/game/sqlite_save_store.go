package game

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteSaveStore 基于 SQLite 的存档后端
// 每个槽位一行，payload 为完整的 JSON 存档
type SQLiteSaveStore struct {
	db   *sql.DB
	slot string
}

// NewSQLiteSaveStore 打开（必要时创建）数据库文件
func NewSQLiteSaveStore(path, slot string) (*SQLiteSaveStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return &SQLiteSaveStore{db: db, slot: slot}, nil
}

// ReadSave 读取当前槽位
func (s *SQLiteSaveStore) ReadSave() ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM saves WHERE slot = ?`, s.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSaveFile
	}
	if err != nil {
		return nil, fmt.Errorf("select save %s: %w", s.slot, err)
	}
	return payload, nil
}

// WriteSave 覆盖当前槽位
func (s *SQLiteSaveStore) WriteSave(data []byte) error {
	if _, err := s.db.Exec(
		`INSERT INTO saves(slot, payload) VALUES(?, ?)
		 ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload`,
		s.slot, data,
	); err != nil {
		return fmt.Errorf("write save %s: %w", s.slot, err)
	}
	return nil
}

// Close 关闭数据库
func (s *SQLiteSaveStore) Close() error {
	return s.db.Close()
}
