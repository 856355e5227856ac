package components

import "github.com/decker502/basebuilder/pkg/physics"

// ColliderGroupComponent 预制体附带的次级碰撞体组
// 预览阶段整体禁用，建筑放置后启用，用于删除模式的射线命中
type ColliderGroupComponent struct {
	Colliders []*physics.Collider
}

// SetEnabled 启用或禁用组内所有碰撞体
func (c *ColliderGroupComponent) SetEnabled(enabled bool) {
	for _, col := range c.Colliders {
		col.Enabled = enabled
	}
}
