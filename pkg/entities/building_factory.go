package entities

import (
	"fmt"

	"github.com/decker502/basebuilder/pkg/components"
	"github.com/decker502/basebuilder/pkg/config"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/decker502/basebuilder/pkg/game"
	"github.com/decker502/basebuilder/pkg/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// PlacedBuildingTag 已放置建筑的节点标签
const PlacedBuildingTag = "PlacedBuilding"

// NewBuildingEntity 创建预览状态的建筑实体
//
// 实体层级：
//
//	建筑根实体（Transform + Node + Building）
//	└── 预制体可视实体（Transform + Node [+ MeshRenderer]）
//	    └── 次级碰撞体组（Transform + ColliderGroup），仅当预制体附带碰撞体时创建
//
// 包围盒探针注册在根实体上：尺寸等于建筑尺寸，底面抬高 probeOffset，位于预览图层且为触发器。
// 次级碰撞体位于可删除图层，创建时禁用。
//
// 参数:
//   - em: 实体管理器
//   - world: 碰撞世界
//   - data: 目录条目（不可为 nil）
//   - saveData: 读档时传入已有的存档记录，新建预览传 nil
//   - probeOffset: 探针垂直偏移
//
// 返回:
//   - ecs.EntityID: 建筑根实体
//   - *components.BuildingComponent: 建筑组件
//   - error: data 为 nil 时返回错误
func NewBuildingEntity(em *ecs.EntityManager, world *physics.World, data *config.BuildingData, saveData *game.BuildingSaveData, probeOffset float32) (ecs.EntityID, *components.BuildingComponent, error) {
	if data == nil {
		return 0, nil, fmt.Errorf("building data is required")
	}

	entityID := em.CreateEntity()
	transform := components.NewTransformComponent(mgl32.Vec3{})
	em.AddComponent(entityID, transform)

	name := data.DisplayName
	if saveData != nil && saveData.Name != "" {
		name = saveData.Name
	}
	em.AddComponent(entityID, &components.NodeComponent{Name: name})

	// 包围盒探针
	probe := world.AddBox(entityID, entityID, physics.LayerPreview, transform,
		mgl32.Vec3{0, data.Size.Y()/2 + probeOffset, 0},
		data.Size,
	)
	probe.IsTrigger = true

	// 预制体可视实体
	visualID := em.CreateEntity()
	em.SetParent(visualID, entityID)
	visualTransform := components.NewTransformComponent(mgl32.Vec3{})
	visualTransform.Parent = transform
	em.AddComponent(visualID, visualTransform)
	em.AddComponent(visualID, &components.NodeComponent{Name: data.ID})

	var renderer *components.MeshRendererComponent
	if data.Prefab.Renderer != nil {
		renderer = &components.MeshRendererComponent{
			Size:     data.RendererSize(),
			Material: data.DefaultMaterial(),
			Visible:  true,
		}
		em.AddComponent(visualID, renderer)
	}

	// 次级碰撞体组
	var group *components.ColliderGroupComponent
	if len(data.Prefab.Colliders) > 0 {
		groupID := em.CreateEntity()
		em.SetParent(groupID, visualID)
		groupTransform := components.NewTransformComponent(mgl32.Vec3{})
		groupTransform.Parent = visualTransform
		em.AddComponent(groupID, groupTransform)

		group = &components.ColliderGroupComponent{}
		for _, c := range data.Prefab.Colliders {
			col := world.AddBox(groupID, entityID, physics.LayerDeletable, groupTransform, c.Center, c.Size)
			col.Enabled = false
			group.Colliders = append(group.Colliders, col)
		}
		em.AddComponent(groupID, group)
	}

	building := &components.BuildingComponent{
		Data:            data,
		State:           components.BuildingStatePreview,
		SaveData:        saveData,
		VisualEntity:    visualID,
		Renderer:        renderer,
		DefaultMaterial: data.DefaultMaterial(),
		BoundingBox:     probe,
		Colliders:       group,
	}
	em.AddComponent(entityID, building)

	return entityID, building, nil
}

// NewGroundEntity 创建可建造地面
// 地面是位于可建造图层的静态盒体，上表面位于 y = 0
func NewGroundEntity(em *ecs.EntityManager, world *physics.World, size float32) ecs.EntityID {
	entityID := em.CreateEntity()
	transform := components.NewTransformComponent(mgl32.Vec3{})
	em.AddComponent(entityID, transform)
	em.AddComponent(entityID, &components.NodeComponent{Name: "Ground", Tag: "Ground"})

	world.AddBox(entityID, entityID, physics.LayerBuildable, transform,
		mgl32.Vec3{0, -0.5, 0},
		mgl32.Vec3{size, 1, size},
	)
	return entityID
}
