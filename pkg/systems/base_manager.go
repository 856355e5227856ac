package systems

import (
	"github.com/decker502/basebuilder/pkg/components"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/decker502/basebuilder/pkg/game"
	"go.uber.org/zap"
)

// BaseManager 读档时重建已放置的建筑
// 必须在 SaveGameManager 之后订阅读档事件，保证建筑持有的记录就是新快照中的记录
type BaseManager struct {
	entityManager  *ecs.EntityManager
	buildingSystem *BuildingSystem
	logger         *zap.Logger
	unsubscribe    func()
}

// NewBaseManager 创建并订阅读档事件
func NewBaseManager(em *ecs.EntityManager, saveLoad *game.SaveLoad, bs *BuildingSystem, logger *zap.Logger) *BaseManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &BaseManager{
		entityManager:  em,
		buildingSystem: bs,
		logger:         logger,
	}
	m.unsubscribe = saveLoad.OnLoadGame(m.LoadBase)
	return m
}

// LoadBase 为每条记录创建建筑并直接放置
func (m *BaseManager) LoadBase(data *game.SaveData) {
	loaded := 0
	for _, record := range data.Buildings {
		id, err := m.buildingSystem.InitBuilding(record.AssignedData, record)
		if err != nil {
			m.logger.Warn("skipping saved building", zap.String("name", record.Name), zap.Error(err))
			continue
		}
		if node, ok := ecs.GetComponent[*components.NodeComponent](m.entityManager, id); ok {
			node.Name = record.Name
		}
		m.buildingSystem.SetRotation(id, record.Rotation)
		m.buildingSystem.SetPosition(id, record.Position)
		m.buildingSystem.PlaceBuilding(id)
		loaded++
	}
	m.logger.Info("base loaded", zap.Int("buildings", loaded))
}

// Close 取消读档订阅
func (m *BaseManager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
