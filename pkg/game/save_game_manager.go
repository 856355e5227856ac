package game

import "go.uber.org/zap"

// SaveGameManager 持有当前会话的存档快照
// 创建时即订阅读档事件，读档时整体替换快照
type SaveGameManager struct {
	saveLoad    *SaveLoad
	data        *SaveData
	logger      *zap.Logger
	unsubscribe func()
}

// NewSaveGameManager 创建存档管理器，快照初始为空
func NewSaveGameManager(saveLoad *SaveLoad, logger *zap.Logger) *SaveGameManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &SaveGameManager{
		saveLoad: saveLoad,
		data:     NewSaveData(),
		logger:   logger,
	}
	m.unsubscribe = saveLoad.OnLoadGame(m.loadGame)
	return m
}

// Data 返回当前快照
func (m *SaveGameManager) Data() *SaveData {
	return m.data
}

// SaveData 保存当前快照
func (m *SaveGameManager) SaveData() error {
	m.logger.Debug("save requested")
	return m.saveLoad.Save(m.data)
}

// TryLoadData 尝试读档
func (m *SaveGameManager) TryLoadData() error {
	return m.saveLoad.Load()
}

// Close 取消读档订阅
func (m *SaveGameManager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *SaveGameManager) loadGame(data *SaveData) {
	m.data = data
}
