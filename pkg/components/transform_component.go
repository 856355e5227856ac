package components

import "github.com/go-gl/mathgl/mgl32"

// TransformComponent 三维位姿组件
// LocalPosition/LocalRotation 相对于 Parent；Parent 为 nil 时即世界位姿
type TransformComponent struct {
	LocalPosition mgl32.Vec3
	LocalRotation mgl32.Quat
	Parent        *TransformComponent
}

// NewTransformComponent 创建位于 pos、无旋转的位姿
func NewTransformComponent(pos mgl32.Vec3) *TransformComponent {
	return &TransformComponent{
		LocalPosition: pos,
		LocalRotation: mgl32.QuatIdent(),
	}
}

// WorldPosition 返回世界坐标
func (t *TransformComponent) WorldPosition() mgl32.Vec3 {
	if t.Parent == nil {
		return t.LocalPosition
	}
	return t.Parent.WorldPosition().Add(t.Parent.WorldRotation().Rotate(t.LocalPosition))
}

// WorldRotation 返回世界旋转
func (t *TransformComponent) WorldRotation() mgl32.Quat {
	if t.Parent == nil {
		return t.LocalRotation
	}
	return t.Parent.WorldRotation().Mul(t.LocalRotation).Normalize()
}

// SetWorldPosition 设置世界坐标（换算为相对父节点的局部坐标）
func (t *TransformComponent) SetWorldPosition(pos mgl32.Vec3) {
	if t.Parent == nil {
		t.LocalPosition = pos
		return
	}
	offset := pos.Sub(t.Parent.WorldPosition())
	t.LocalPosition = t.Parent.WorldRotation().Inverse().Rotate(offset)
}

// SetWorldRotation 设置世界旋转
func (t *TransformComponent) SetWorldRotation(rot mgl32.Quat) {
	if t.Parent == nil {
		t.LocalRotation = rot
		return
	}
	t.LocalRotation = t.Parent.WorldRotation().Inverse().Mul(rot).Normalize()
}
