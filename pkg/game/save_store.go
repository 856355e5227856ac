package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

// ErrNoSaveFile 存档不存在
var ErrNoSaveFile = errors.New("save file does not exist")

// SaveStore 存档的持久化后端
// ReadSave 在存档不存在时返回 ErrNoSaveFile；WriteSave 总是覆盖
type SaveStore interface {
	ReadSave() ([]byte, error)
	WriteSave(data []byte) error
}

// gdata 存储路径：对象 "savedata" 下，属性名由槽位文件名转换而来
const saveObject = "savedata"

// GdataSaveStore 基于 gdata 的存档后端（存放在平台持久数据目录下）
type GdataSaveStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，存档不落盘）
	property     string
	logger       *zap.Logger
}

// NewGdataSaveStore 创建 gdata 存档后端
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//   - slot: 存档槽位，如 "SaveGame.sav"
func NewGdataSaveStore(gdataManager *gdata.Manager, slot string, logger *zap.Logger) *GdataSaveStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GdataSaveStore{
		gdataManager: gdataManager,
		property:     propertyName(slot),
		logger:       logger,
	}
}

// OpenGdataSaveStore 打开应用的 gdata 目录并创建存档后端
// 打开失败时记录警告并进入降级模式
func OpenGdataSaveStore(appName, slot string, logger *zap.Logger) *GdataSaveStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		logger.Warn("gdata unavailable, saves will not persist", zap.String("app", appName), zap.Error(err))
		manager = nil
	}
	return NewGdataSaveStore(manager, slot, logger)
}

// Degraded 是否处于降级模式
func (s *GdataSaveStore) Degraded() bool {
	return s.gdataManager == nil
}

// ReadSave 读取存档
func (s *GdataSaveStore) ReadSave() ([]byte, error) {
	if s.gdataManager == nil {
		return nil, ErrNoSaveFile
	}
	if !s.gdataManager.ObjectPropExists(saveObject, s.property) {
		return nil, ErrNoSaveFile
	}

	data, err := s.gdataManager.LoadObjectProp(saveObject, s.property)
	if err != nil {
		return nil, fmt.Errorf("failed to load save: %w", err)
	}
	return data, nil
}

// WriteSave 写入存档
// 降级模式下不落盘也不报错
func (s *GdataSaveStore) WriteSave(data []byte) error {
	if s.gdataManager == nil {
		s.logger.Debug("gdata unavailable, save discarded", zap.Int("bytes", len(data)))
		return nil
	}
	if err := s.gdataManager.SaveObjectProp(saveObject, s.property, data); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// propertyName 将槽位文件名转换为 gdata 属性名（只保留字母、数字、下划线和连字符）
func propertyName(slot string) string {
	var b strings.Builder
	for _, r := range slot {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "save"
	}
	return b.String()
}
