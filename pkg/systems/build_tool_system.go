package systems

import (
	"github.com/decker502/basebuilder/pkg/components"
	"github.com/decker502/basebuilder/pkg/config"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/decker502/basebuilder/pkg/physics"
	"github.com/decker502/basebuilder/pkg/utils"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// BuildToolMode 建造工具模式
type BuildToolMode int

const (
	// BuildMode 建造模式：预览跟随准星，确认放置
	BuildMode BuildToolMode = iota
	// DeleteMode 删除模式：标记准星下的建筑，确认删除
	DeleteMode
)

// String 返回模式名称
func (m BuildToolMode) String() string {
	if m == DeleteMode {
		return "Delete"
	}
	return "Build"
}

var worldUp = mgl32.Vec3{0, 1, 0}

// BuildToolSystem 建造工具状态机
//
// 每帧从射线起点沿相机朝向发射射线：
//   - 建造模式只检测可建造图层，驱动预览建筑的位置、材质、旋转和放置
//   - 删除模式只检测可删除图层，沿父链找到命中的建筑并标记/删除
//
// 模式切换只由按键边沿决定，与射线结果无关。
// 相机或射线起点缺失时本帧不做任何事。
type BuildToolSystem struct {
	entityManager  *ecs.EntityManager
	world          *physics.World
	buildingSystem *BuildingSystem
	config         *config.BuildToolConfig
	logger         *zap.Logger

	camera    *components.CameraComponent
	rayOrigin *components.TransformComponent

	deleteModeEnabled bool
	buildingToPlace   ecs.EntityID // 当前预览建筑
	targetBuilding    ecs.EntityID // 删除模式当前目标
	lastRotation      mgl32.Quat   // 新预览沿用的旋转

	onPlaced  []func(id ecs.EntityID, building *components.BuildingComponent)
	onDeleted []func(id ecs.EntityID, building *components.BuildingComponent)
}

// NewBuildToolSystem 创建建造工具
func NewBuildToolSystem(em *ecs.EntityManager, world *physics.World, bs *BuildingSystem, cfg *config.BuildToolConfig, logger *zap.Logger) *BuildToolSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuildToolSystem{
		entityManager:  em,
		world:          world,
		buildingSystem: bs,
		config:         cfg,
		logger:         logger,
		lastRotation:   mgl32.QuatIdent(),
	}
}

// SetCamera 设置相机和射线起点
func (bt *BuildToolSystem) SetCamera(camera *components.CameraComponent, rayOrigin *components.TransformComponent) {
	bt.camera = camera
	bt.rayOrigin = rayOrigin
}

// OnPlaced 订阅放置事件
func (bt *BuildToolSystem) OnPlaced(fn func(id ecs.EntityID, building *components.BuildingComponent)) {
	bt.onPlaced = append(bt.onPlaced, fn)
}

// OnDeleted 订阅删除事件（实体在本帧末尾才真正移除）
func (bt *BuildToolSystem) OnDeleted(fn func(id ecs.EntityID, building *components.BuildingComponent)) {
	bt.onDeleted = append(bt.onDeleted, fn)
}

// Mode 当前模式
func (bt *BuildToolSystem) Mode() BuildToolMode {
	if bt.deleteModeEnabled {
		return DeleteMode
	}
	return BuildMode
}

// Preview 当前预览建筑，没有时返回 0
func (bt *BuildToolSystem) Preview() ecs.EntityID {
	if bt.buildingSystem.GetBuilding(bt.buildingToPlace) == nil {
		return 0
	}
	return bt.buildingToPlace
}

// Target 删除模式当前目标，没有时返回 0
func (bt *BuildToolSystem) Target() ecs.EntityID {
	return bt.targetBuilding
}

// LastRotation 新预览沿用的旋转
func (bt *BuildToolSystem) LastRotation() mgl32.Quat {
	return bt.lastRotation
}

// Update 每帧调用，必须在 physics.World.Step 之后
func (bt *BuildToolSystem) Update(deltaTime float64, input utils.BuildToolInput) {
	if input.ToggleDeletePressed {
		bt.deleteModeEnabled = !bt.deleteModeEnabled
		bt.logger.Debug("mode toggled", zap.Stringer("mode", bt.Mode()))
	}

	if bt.camera == nil || bt.rayOrigin == nil {
		return
	}

	if bt.deleteModeEnabled {
		bt.deleteModeLogic(input)
	} else {
		bt.buildModeLogic(input)
	}
}

// ChoosePart 选择目录条目：清理删除状态、切回建造模式、替换预览建筑
func (bt *BuildToolSystem) ChoosePart(data *config.BuildingData) {
	if data == nil {
		return
	}

	bt.forgetTarget()
	bt.deleteModeEnabled = false

	if bt.Preview() != 0 {
		bt.entityManager.DestroyEntity(bt.buildingToPlace)
	}
	bt.buildingToPlace = 0

	id, err := bt.buildingSystem.InitBuilding(data, nil)
	if err != nil {
		bt.logger.Error("failed to spawn preview", zap.String("part", data.ID), zap.Error(err))
		return
	}
	bt.buildingSystem.SetRotation(id, bt.lastRotation)
	bt.buildingToPlace = id
	bt.logger.Debug("part chosen", zap.String("part", data.ID))
}

func (bt *BuildToolSystem) buildModeLogic(input utils.BuildToolInput) {
	bt.forgetTarget()

	preview := bt.buildingSystem.GetBuilding(bt.buildingToPlace)
	if preview == nil {
		return
	}

	hit, ok := bt.castRay(bt.config.BuildMask())
	if !ok {
		bt.buildingSystem.UpdateMaterial(bt.buildingToPlace, bt.config.NegativeMaterial())
		return
	}

	if preview.IsOverlapping {
		bt.buildingSystem.UpdateMaterial(bt.buildingToPlace, bt.config.NegativeMaterial())
	} else {
		bt.buildingSystem.UpdateMaterial(bt.buildingToPlace, bt.config.PositiveMaterial())
	}

	gridPos := utils.GridPositionFromWorldPoint(hit.Point, bt.config.GridSizeFor(preview.Data))
	bt.buildingSystem.SetPosition(bt.buildingToPlace, gridPos)

	if input.RotatePressed {
		tr := bt.buildingSystem.GetTransform(bt.buildingToPlace)
		step := mgl32.QuatRotate(mgl32.DegToRad(bt.config.BuildTool.RotateStep), worldUp)
		rot := tr.WorldRotation().Mul(step).Normalize()
		tr.SetWorldRotation(rot)
		bt.lastRotation = rot
	}

	// 重叠时确认输入被忽略
	if input.ConfirmPressed && !preview.IsOverlapping {
		data := preview.Data
		placedID := bt.buildingToPlace
		bt.buildingSystem.PlaceBuilding(placedID)
		bt.buildingToPlace = 0
		for _, fn := range bt.onPlaced {
			fn(placedID, preview)
		}

		id, err := bt.buildingSystem.InitBuilding(data, nil)
		if err != nil {
			bt.logger.Error("failed to spawn next preview", zap.String("part", data.ID), zap.Error(err))
			return
		}
		bt.buildingSystem.SetRotation(id, bt.lastRotation)
		bt.buildingSystem.SetPosition(id, gridPos)
		bt.buildingToPlace = id
	}
}

func (bt *BuildToolSystem) deleteModeLogic(input utils.BuildToolInput) {
	if bt.buildingSystem.GetBuilding(bt.targetBuilding) == nil {
		bt.targetBuilding = 0
	}

	hit, ok := bt.castRay(bt.config.DeleteMask())
	if !ok {
		bt.forgetTarget()
		return
	}

	detected := ecs.FindAncestorWith[*components.BuildingComponent](bt.entityManager, hit.Collider.Owner)
	if bt.buildingSystem.GetBuilding(detected) == nil {
		return
	}

	if bt.targetBuilding == 0 {
		bt.targetBuilding = detected
	}
	if detected != bt.targetBuilding {
		bt.forgetTarget()
		bt.targetBuilding = detected
	}

	target := bt.buildingSystem.GetBuilding(bt.targetBuilding)
	if !target.FlaggedForDelete {
		bt.buildingSystem.FlagForDelete(bt.targetBuilding, bt.config.DeleteMaterial())
	}

	if input.ConfirmPressed {
		deletedID := bt.targetBuilding
		bt.entityManager.DestroyEntity(deletedID)
		bt.targetBuilding = 0
		for _, fn := range bt.onDeleted {
			fn(deletedID, target)
		}
	}
}

// forgetTarget 清除删除目标的标记并遗忘目标
func (bt *BuildToolSystem) forgetTarget() {
	if bt.targetBuilding == 0 {
		return
	}
	if target := bt.buildingSystem.GetBuilding(bt.targetBuilding); target != nil && target.FlaggedForDelete {
		bt.buildingSystem.RemoveDeleteFlag(bt.targetBuilding)
	}
	bt.targetBuilding = 0
}

func (bt *BuildToolSystem) castRay(mask physics.LayerMask) (physics.RaycastHit, bool) {
	origin := bt.rayOrigin.WorldPosition()
	return bt.world.Raycast(origin, bt.camera.Forward(), bt.config.BuildTool.RayDistance, mask)
}
