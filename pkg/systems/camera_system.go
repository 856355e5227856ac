package systems

import (
	"github.com/decker502/basebuilder/pkg/components"
	"github.com/decker502/basebuilder/pkg/config"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/decker502/basebuilder/pkg/entities"
	"github.com/decker502/basebuilder/pkg/utils"
	"github.com/go-gl/mathgl/mgl32"
)

// 俯仰角限制，避免视线与竖直方向重合
var maxPitch = mgl32.DegToRad(89)

// CameraSystem 第一人称飞行相机
// 相机实体的 TransformComponent 与相机位置保持同步，作为建造工具的射线起点。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID
	moveSpeed     float32 // 单位/秒
	lookSpeed     float32 // 弧度/秒
}

// NewCameraSystem 创建相机系统及相机实体
func NewCameraSystem(em *ecs.EntityManager, settings config.CameraSettings) *CameraSystem {
	return &CameraSystem{
		entityManager: em,
		cameraEntity:  entities.NewCameraEntity(em, settings),
		moveSpeed:     settings.MoveSpeed,
		lookSpeed:     mgl32.DegToRad(settings.LookSpeed),
	}
}

// Entity 相机实体
func (cs *CameraSystem) Entity() ecs.EntityID {
	return cs.cameraEntity
}

// Camera 相机组件
func (cs *CameraSystem) Camera() *components.CameraComponent {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return nil
	}
	return cam
}

// RayOrigin 射线起点
func (cs *CameraSystem) RayOrigin() *components.TransformComponent {
	tr, ok := ecs.GetComponent[*components.TransformComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return nil
	}
	return tr
}

// Update 根据输入转动和移动相机
func (cs *CameraSystem) Update(dt float64, input utils.CameraInput) {
	cam := cs.Camera()
	if cam == nil {
		return
	}
	step := float32(dt)

	cam.Yaw += input.Yaw * cs.lookSpeed * step
	cam.Pitch += input.Pitch * cs.lookSpeed * step
	if cam.Pitch > maxPitch {
		cam.Pitch = maxPitch
	}
	if cam.Pitch < -maxPitch {
		cam.Pitch = -maxPitch
	}

	// 水平移动不受俯仰角影响
	right := cam.Right()
	flatForward := worldUp.Cross(right)
	move := flatForward.Mul(input.Forward).
		Add(right.Mul(input.Right)).
		Add(worldUp.Mul(input.Up))
	if move.Len() > 0 {
		cam.Position = cam.Position.Add(move.Normalize().Mul(cs.moveSpeed * step))
	}

	if tr := cs.RayOrigin(); tr != nil {
		tr.LocalPosition = cam.Position
	}
}

// ViewProjection 返回视图投影矩阵
func (cs *CameraSystem) ViewProjection(width, height int) mgl32.Mat4 {
	cam := cs.Camera()
	if cam == nil || width <= 0 || height <= 0 {
		return mgl32.Ident4()
	}
	proj := mgl32.Perspective(mgl32.DegToRad(cam.Fov), float32(width)/float32(height), cam.Near, cam.Far)
	view := mgl32.LookAtV(cam.Position, cam.Position.Add(cam.Forward()), worldUp)
	return proj.Mul4(view)
}
