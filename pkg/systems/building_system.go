package systems

import (
	"fmt"
	"strconv"

	"github.com/decker502/basebuilder/pkg/components"
	"github.com/decker502/basebuilder/pkg/config"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/decker502/basebuilder/pkg/entities"
	"github.com/decker502/basebuilder/pkg/game"
	"github.com/decker502/basebuilder/pkg/physics"
	"github.com/decker502/basebuilder/pkg/types"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// BuildingSystem 管理建筑的生命周期：预览、放置、删除标记和销毁
//
// 重叠检测不做轮询：包围盒探针的触发器回调维护 IsOverlapping，
// 因此读取该标志必须在本帧 physics.World.Step 之后。
type BuildingSystem struct {
	entityManager *ecs.EntityManager
	world         *physics.World
	saveManager   *game.SaveGameManager
	probeOffset   float32
	logger        *zap.Logger
}

// NewBuildingSystem 创建建筑系统并注册实体销毁监听
func NewBuildingSystem(em *ecs.EntityManager, world *physics.World, saveManager *game.SaveGameManager, probeOffset float32, logger *zap.Logger) *BuildingSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	bs := &BuildingSystem{
		entityManager: em,
		world:         world,
		saveManager:   saveManager,
		probeOffset:   probeOffset,
		logger:        logger,
	}
	em.AddDestroyListener(bs.onEntityDestroyed)
	return bs
}

// InitBuilding 创建预览建筑
// saveData 非空时建筑保留该记录，放置时不再生成新记录
func (bs *BuildingSystem) InitBuilding(data *config.BuildingData, saveData *game.BuildingSaveData) (ecs.EntityID, error) {
	id, building, err := entities.NewBuildingEntity(bs.entityManager, bs.world, data, saveData, bs.probeOffset)
	if err != nil {
		return 0, fmt.Errorf("failed to init building: %w", err)
	}
	building.BoundingBox.Listener = &overlapListener{building: building}

	if building.Renderer == nil {
		bs.logger.Warn("prefab has no renderer, material updates disabled", zap.String("part", data.ID))
	}
	return id, nil
}

// GetBuilding 返回建筑组件，实体不存在、已标记销毁或不是建筑时返回 nil
func (bs *BuildingSystem) GetBuilding(id ecs.EntityID) *components.BuildingComponent {
	if id == 0 || bs.entityManager.IsPendingDestroy(id) {
		return nil
	}
	building, ok := ecs.GetComponent[*components.BuildingComponent](bs.entityManager, id)
	if !ok {
		return nil
	}
	return building
}

// GetTransform 返回建筑的位姿组件
func (bs *BuildingSystem) GetTransform(id ecs.EntityID) *components.TransformComponent {
	tr, ok := ecs.GetComponent[*components.TransformComponent](bs.entityManager, id)
	if !ok {
		return nil
	}
	return tr
}

// SetPosition 设置建筑位置
func (bs *BuildingSystem) SetPosition(id ecs.EntityID, pos mgl32.Vec3) {
	if tr := bs.GetTransform(id); tr != nil {
		tr.SetWorldPosition(pos)
	}
}

// SetRotation 设置建筑旋转
func (bs *BuildingSystem) SetRotation(id ecs.EntityID, rot mgl32.Quat) {
	if tr := bs.GetTransform(id); tr != nil {
		tr.SetWorldRotation(rot)
	}
}

// UpdateMaterial 更换渲染材质，材质相同或没有渲染器时不做任何事
func (bs *BuildingSystem) UpdateMaterial(id ecs.EntityID, material *types.Material) {
	building := bs.GetBuilding(id)
	if building == nil || building.Renderer == nil {
		return
	}
	if building.Renderer.Material != material {
		building.Renderer.Material = material
	}
}

// PlaceBuilding 放置建筑
// 禁用探针、启用次级碰撞体、恢复默认材质、重命名并打标签；
// 没有记录时生成一条并追加到存档快照（同一记录不会重复追加）
func (bs *BuildingSystem) PlaceBuilding(id ecs.EntityID) {
	building := bs.GetBuilding(id)
	if building == nil {
		return
	}

	building.BoundingBox.Enabled = false
	building.IsOverlapping = false
	if building.Colliders != nil {
		building.Colliders.SetEnabled(true)
	}
	bs.UpdateMaterial(id, building.DefaultMaterial)

	tr := bs.GetTransform(id)
	pos := tr.WorldPosition()
	name := PlacedBuildingName(building.Data.DisplayName, pos)
	if node, ok := ecs.GetComponent[*components.NodeComponent](bs.entityManager, id); ok {
		node.Name = name
		node.Tag = entities.PlacedBuildingTag
	}
	building.State = components.BuildingStatePlaced

	if building.SaveData == nil {
		building.SaveData = game.NewBuildingSaveData(name, building.Data, pos, tr.WorldRotation())
	}
	if bs.saveManager != nil {
		bs.saveManager.Data().AddBuilding(building.SaveData)
	}

	bs.logger.Debug("building placed", zap.String("name", name), zap.Uint64("entity", uint64(id)))
}

// FlagForDelete 标记删除：应用标记材质并设置标志
func (bs *BuildingSystem) FlagForDelete(id ecs.EntityID, material *types.Material) {
	building := bs.GetBuilding(id)
	if building == nil {
		return
	}
	bs.UpdateMaterial(id, material)
	building.FlaggedForDelete = true
}

// RemoveDeleteFlag 取消删除标记：恢复默认材质并清除标志
func (bs *BuildingSystem) RemoveDeleteFlag(id ecs.EntityID) {
	building := bs.GetBuilding(id)
	if building == nil {
		return
	}
	bs.UpdateMaterial(id, building.DefaultMaterial)
	building.FlaggedForDelete = false
}

// onEntityDestroyed 建筑销毁时移除其存档记录和碰撞体
func (bs *BuildingSystem) onEntityDestroyed(id ecs.EntityID) {
	building, ok := ecs.GetComponent[*components.BuildingComponent](bs.entityManager, id)
	if !ok {
		return
	}

	if building.SaveData != nil && bs.saveManager != nil {
		bs.saveManager.Data().RemoveBuilding(building.SaveData)
	}

	bs.world.Remove(building.BoundingBox)
	if building.Colliders != nil {
		for _, col := range building.Colliders.Colliders {
			bs.world.Remove(col)
		}
	}
}

// PlacedBuildingName 已放置建筑的名称，如 "Room - (5,0,8)"
func PlacedBuildingName(displayName string, pos mgl32.Vec3) string {
	return fmt.Sprintf("%s - (%s,%s,%s)", displayName, formatCoord(pos.X()), formatCoord(pos.Y()), formatCoord(pos.Z()))
}

func formatCoord(v float32) string {
	if v == 0 {
		v = 0 // -0
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// overlapListener 将探针的触发器回调写入建筑的重叠标志
type overlapListener struct {
	building *components.BuildingComponent
}

func (l *overlapListener) OnTriggerEnter(other *physics.Collider) { l.building.IsOverlapping = true }
func (l *overlapListener) OnTriggerStay(other *physics.Collider)  { l.building.IsOverlapping = true }
func (l *overlapListener) OnTriggerExit(other *physics.Collider)  { l.building.IsOverlapping = false }
