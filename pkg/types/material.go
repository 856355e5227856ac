package types

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Material 表面材质句柄
// 渲染器通过指针比较判断材质是否已应用，因此同一材质在运行期只应存在一个实例
type Material struct {
	// Name 材质名称，用于日志和调试
	Name string
	// Color 线框渲染颜色
	Color color.RGBA
}

// NewMaterial 根据名称和十六进制颜色创建材质
// 颜色格式："#RRGGBB" 或 "#RRGGBBAA"
func NewMaterial(name, hex string) (*Material, error) {
	c, err := ParseHexColor(hex)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", name, err)
	}
	return &Material{Name: name, Color: c}, nil
}

// String 返回材质名称
func (m *Material) String() string {
	if m == nil {
		return "<nil>"
	}
	return m.Name
}

// ParseHexColor 解析 "#RRGGBB" / "#RRGGBBAA" 颜色
func ParseHexColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", hex)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
