package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraComponent 第一人称相机
// Yaw 为绕 Y 轴的角度（0 朝向 -Z），Pitch 为俯仰角，均为弧度
type CameraComponent struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	// Fov 垂直视场角（度）
	Fov  float32
	Near float32
	Far  float32
}

// Forward 返回相机朝向的单位向量
func (c *CameraComponent) Forward() mgl32.Vec3 {
	yaw := float64(c.Yaw)
	pitch := float64(c.Pitch)
	return mgl32.Vec3{
		float32(-math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Right 返回相机右方向（水平面内）
func (c *CameraComponent) Right() mgl32.Vec3 {
	yaw := float64(c.Yaw)
	return mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(-math.Sin(yaw))}
}
