package physics

import (
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform 提供碰撞体所附着对象的世界位姿
type Transform interface {
	WorldPosition() mgl32.Vec3
	WorldRotation() mgl32.Quat
}

// ContactListener 触发器回调
// 仅在 World.Step 中调用；同一次 Step 内先派发 Exit，再派发 Enter/Stay
type ContactListener interface {
	OnTriggerEnter(other *Collider)
	OnTriggerStay(other *Collider)
	OnTriggerExit(other *Collider)
}

// AABB 轴对齐包围盒
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Intersects 判断两个包围盒是否相交
// 使用严格不等式：仅表面接触不算相交，相邻网格上的建筑不会互相判定为重叠
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() < b.Max.X() && a.Max.X() > b.Min.X() &&
		a.Min.Y() < b.Max.Y() && a.Max.Y() > b.Min.Y() &&
		a.Min.Z() < b.Max.Z() && a.Max.Z() > b.Min.Z()
}

// Contains 判断点是否位于包围盒内部
func (a AABB) Contains(p mgl32.Vec3) bool {
	return p.X() > a.Min.X() && p.X() < a.Max.X() &&
		p.Y() > a.Min.Y() && p.Y() < a.Max.Y() &&
		p.Z() > a.Min.Z() && p.Z() < a.Max.Z()
}

// Collider 盒形碰撞体
// Center/Size 是相对于 Transform 的局部坐标；旋转后取外接 AABB 参与检测
type Collider struct {
	// Owner 碰撞体所属实体（射线命中时返回，可能是建筑的子实体）
	Owner ecs.EntityID
	// Body 碰撞体所属的根实体，同一 Body 的碰撞体之间不产生接触
	Body ecs.EntityID
	// Layer 所在图层
	Layer Layer
	// Center 局部中心
	Center mgl32.Vec3
	// Size 局部尺寸
	Size mgl32.Vec3
	// Transform 附着对象，nil 时视为位于原点且无旋转
	Transform Transform
	// Enabled 是否参与检测
	Enabled bool
	// IsTrigger 触发器只感知实体碰撞体，不会被射线命中
	IsTrigger bool
	// Listener 触发器回调接收者
	Listener ContactListener
}

// Bounds 返回碰撞体的世界 AABB
func (c *Collider) Bounds() AABB {
	pos := mgl32.Vec3{}
	rot := mgl32.QuatIdent()
	if c.Transform != nil {
		pos = c.Transform.WorldPosition()
		rot = c.Transform.WorldRotation()
	}

	center := pos.Add(rot.Rotate(c.Center))
	half := c.Size.Mul(0.5)

	// 旋转后的三个半轴在世界各轴上投影长度之和即为外接盒的半尺寸
	ax := rot.Rotate(mgl32.Vec3{half.X(), 0, 0})
	ay := rot.Rotate(mgl32.Vec3{0, half.Y(), 0})
	az := rot.Rotate(mgl32.Vec3{0, 0, half.Z()})
	extent := mgl32.Vec3{
		mgl32.Abs(ax.X()) + mgl32.Abs(ay.X()) + mgl32.Abs(az.X()),
		mgl32.Abs(ax.Y()) + mgl32.Abs(ay.Y()) + mgl32.Abs(az.Y()),
		mgl32.Abs(ax.Z()) + mgl32.Abs(ay.Z()) + mgl32.Abs(az.Z()),
	}

	return AABB{Min: center.Sub(extent), Max: center.Add(extent)}
}
