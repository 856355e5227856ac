// Package physics 提供建造工具使用的最小碰撞服务：
// 轴对齐包围盒、按图层过滤的射线检测，以及触发器的进入/停留/离开回调。
package physics

import (
	"fmt"
	"strings"
)

// Layer 碰撞图层，每个图层占一个位
type Layer uint32

const (
	// LayerDefault 默认图层
	LayerDefault Layer = 1 << iota
	// LayerBuildable 可建造表面（地面）
	LayerBuildable
	// LayerDeletable 可删除物体（已放置建筑的精细碰撞体）
	LayerDeletable
	// LayerPreview 预览建筑的包围盒探针
	LayerPreview
)

// LayerMask 图层掩码
type LayerMask uint32

// MaskAll 匹配所有图层
const MaskAll LayerMask = ^LayerMask(0)

// Contains 判断掩码是否包含指定图层
func (m LayerMask) Contains(l Layer) bool {
	return uint32(m)&uint32(l) != 0
}

// MaskOf 由若干图层组成掩码
func MaskOf(layers ...Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m |= LayerMask(l)
	}
	return m
}

// String 返回图层名称
func (l Layer) String() string {
	switch l {
	case LayerDefault:
		return "default"
	case LayerBuildable:
		return "buildable"
	case LayerDeletable:
		return "deletable"
	case LayerPreview:
		return "preview"
	}
	return fmt.Sprintf("layer(%d)", uint32(l))
}

// ParseLayer 将图层名称解析为图层
func ParseLayer(name string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "default":
		return LayerDefault, nil
	case "buildable":
		return LayerBuildable, nil
	case "deletable":
		return LayerDeletable, nil
	case "preview":
		return LayerPreview, nil
	}
	return 0, fmt.Errorf("unknown layer %q", name)
}

// ParseLayerMask 将图层名称列表解析为掩码
func ParseLayerMask(names []string) (LayerMask, error) {
	var m LayerMask
	for _, name := range names {
		l, err := ParseLayer(name)
		if err != nil {
			return 0, err
		}
		m |= LayerMask(l)
	}
	return m, nil
}
