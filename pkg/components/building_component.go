package components

import (
	"github.com/decker502/basebuilder/pkg/config"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/decker502/basebuilder/pkg/game"
	"github.com/decker502/basebuilder/pkg/physics"
	"github.com/decker502/basebuilder/pkg/types"
)

// BuildingState 建筑状态
type BuildingState int

const (
	// BuildingStatePreview 跟随准星移动的预览
	BuildingStatePreview BuildingState = iota
	// BuildingStatePlaced 已放置
	BuildingStatePlaced
)

// String 返回状态名称
func (s BuildingState) String() string {
	if s == BuildingStatePlaced {
		return "Placed"
	}
	return "Preview"
}

// BuildingComponent 可放置建筑
//
// 生命周期：InitBuilding 创建预览 -> PlaceBuilding 放置 -> 玩家删除或场景销毁。
// 预览阶段由包围盒探针（触发器）检测重叠；放置后探针禁用，改为启用次级碰撞体。
type BuildingComponent struct {
	// Data 目录条目，初始化后不为 nil
	Data *config.BuildingData
	// State 预览或已放置
	State BuildingState

	// IsOverlapping 探针当前是否与其它实体碰撞体相交，只由触发器回调维护
	IsOverlapping bool
	// FlaggedForDelete 是否被删除模式标记
	FlaggedForDelete bool

	// SaveData 对应的存档记录；读档生成的建筑在初始化时即持有记录
	SaveData *game.BuildingSaveData

	// VisualEntity 预制体可视子实体
	VisualEntity ecs.EntityID
	// Renderer 可视子实体的渲染器，预制体没有渲染器时为 nil
	Renderer *MeshRendererComponent
	// DefaultMaterial 预制体原始材质
	DefaultMaterial *types.Material

	// BoundingBox 包围盒探针
	BoundingBox *physics.Collider
	// Colliders 次级碰撞体组，预制体未附带时为 nil
	Colliders *ColliderGroupComponent
}
