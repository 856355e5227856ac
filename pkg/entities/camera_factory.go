package entities

import (
	"github.com/decker502/basebuilder/pkg/components"
	"github.com/decker502/basebuilder/pkg/config"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// NewCameraEntity 创建相机实体
// 相机实体的 TransformComponent 即建造工具的射线起点
func NewCameraEntity(em *ecs.EntityManager, settings config.CameraSettings) ecs.EntityID {
	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.CameraComponent{
		Position: settings.Position,
		Yaw:      mgl32.DegToRad(settings.Yaw),
		Pitch:    mgl32.DegToRad(settings.Pitch),
		Fov:      settings.Fov,
		Near:     settings.Near,
		Far:      settings.Far,
	})
	em.AddComponent(entityID, components.NewTransformComponent(settings.Position))
	em.AddComponent(entityID, &components.NodeComponent{Name: "Main Camera", Tag: "MainCamera"})
	return entityID
}
