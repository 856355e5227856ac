package physics

import (
	"math"

	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// triggerSkin 触发器包围盒向内收缩的距离，旋转 90 度后相邻建筑贴面不算接触
const triggerSkin = 0.005

// RaycastHit 射线命中信息
type RaycastHit struct {
	Collider *Collider
	Point    mgl32.Vec3
	Distance float32
}

// World 碰撞世界
// 单线程使用：Step 在每帧游戏逻辑之前调用，触发器状态只在本帧内有效
type World struct {
	colliders []*Collider
	// contacts 触发器 -> 当前接触的实体碰撞体集合
	contacts map[*Collider]map[*Collider]bool
}

// NewWorld 创建空的碰撞世界
func NewWorld() *World {
	return &World{
		colliders: make([]*Collider, 0),
		contacts:  make(map[*Collider]map[*Collider]bool),
	}
}

// AddBox 注册一个启用状态的盒形碰撞体
func (w *World) AddBox(owner, body ecs.EntityID, layer Layer, tr Transform, center, size mgl32.Vec3) *Collider {
	c := &Collider{
		Owner:     owner,
		Body:      body,
		Layer:     layer,
		Center:    center,
		Size:      size,
		Transform: tr,
		Enabled:   true,
	}
	w.colliders = append(w.colliders, c)
	return c
}

// Remove 移除碰撞体
// 与之接触的触发器会在下一次 Step 收到 Exit
func (w *World) Remove(c *Collider) {
	if c == nil {
		return
	}
	for i, existing := range w.colliders {
		if existing == c {
			w.colliders = append(w.colliders[:i], w.colliders[i+1:]...)
			break
		}
	}
	delete(w.contacts, c)
}

// Colliders 返回所有已注册碰撞体（副本）
func (w *World) Colliders() []*Collider {
	out := make([]*Collider, len(w.colliders))
	copy(out, w.colliders)
	return out
}

// Raycast 沿 direction 发射射线，返回 maxDistance 内最近的命中
// 只检测启用的、非触发器的、图层位于 mask 中的碰撞体；起点位于内部的碰撞体被忽略
func (w *World) Raycast(origin, direction mgl32.Vec3, maxDistance float32, mask LayerMask) (RaycastHit, bool) {
	if direction.Len() == 0 || maxDistance <= 0 {
		return RaycastHit{}, false
	}
	dir := direction.Normalize()

	best := RaycastHit{Distance: float32(math.Inf(1))}
	found := false
	for _, c := range w.colliders {
		if !c.Enabled || c.IsTrigger || !mask.Contains(c.Layer) {
			continue
		}
		t, ok := intersectRayAABB(origin, dir, c.Bounds())
		if !ok || t > maxDistance || t >= best.Distance {
			continue
		}
		best = RaycastHit{Collider: c, Point: origin.Add(dir.Mul(t)), Distance: t}
		found = true
	}
	return best, found
}

// Step 计算触发器与实体碰撞体的接触并派发回调
func (w *World) Step() {
	for _, trigger := range w.colliders {
		if !trigger.IsTrigger {
			continue
		}

		previous := w.contacts[trigger]
		current := make(map[*Collider]bool)
		var ordered []*Collider
		if trigger.Enabled {
			bounds := trigger.Bounds()
			skin := mgl32.Vec3{triggerSkin, triggerSkin, triggerSkin}
			bounds.Min = bounds.Min.Add(skin)
			bounds.Max = bounds.Max.Sub(skin)
			for _, other := range w.colliders {
				if other == trigger || other.IsTrigger || !other.Enabled {
					continue
				}
				if trigger.Body != 0 && other.Body == trigger.Body {
					continue
				}
				if bounds.Intersects(other.Bounds()) {
					current[other] = true
					ordered = append(ordered, other)
				}
			}
		}

		// 先派发离开，保证仍有其它接触时状态最终为"重叠"
		for _, other := range w.sortedContacts(previous) {
			if !current[other] && trigger.Listener != nil {
				trigger.Listener.OnTriggerExit(other)
			}
		}
		for _, other := range ordered {
			if trigger.Listener == nil {
				continue
			}
			if previous[other] {
				trigger.Listener.OnTriggerStay(other)
			} else {
				trigger.Listener.OnTriggerEnter(other)
			}
		}

		if len(current) == 0 {
			delete(w.contacts, trigger)
		} else {
			w.contacts[trigger] = current
		}
	}
}

// sortedContacts 按注册顺序返回接触集合，已移除的碰撞体排在最后
func (w *World) sortedContacts(set map[*Collider]bool) []*Collider {
	if len(set) == 0 {
		return nil
	}
	out := make([]*Collider, 0, len(set))
	seen := make(map[*Collider]bool, len(set))
	for _, c := range w.colliders {
		if set[c] {
			out = append(out, c)
			seen[c] = true
		}
	}
	for c := range set {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// intersectRayAABB 射线与包围盒的 slab 求交，dir 必须已归一化
func intersectRayAABB(origin, dir mgl32.Vec3, box AABB) (float32, bool) {
	if box.Contains(origin) {
		return 0, false
	}

	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		o, d := origin[axis], dir[axis]
		lo, hi := box.Min[axis], box.Max[axis]
		if mgl32.Abs(d) < 1e-8 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 || tMin < 0 {
		return 0, false
	}
	return tMin, true
}
