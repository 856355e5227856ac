// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strings"
)

// PartType 定义建筑构件的类别
type PartType int

const (
	// PartRoom 房间类型构件
	PartRoom PartType = iota
	// PartCorridor 走廊类型构件
	PartCorridor
	// PartDecoration 装饰性构件
	PartDecoration
)

// AllPartTypes 按面板标签顺序返回所有构件类别
func AllPartTypes() []PartType {
	return []PartType{PartRoom, PartCorridor, PartDecoration}
}

// String 返回构件类别的字符串表示
func (p PartType) String() string {
	switch p {
	case PartRoom:
		return "Room"
	case PartCorridor:
		return "Corridor"
	case PartDecoration:
		return "Decoration"
	default:
		return "Unknown"
	}
}

// ParsePartType 将字符串（不区分大小写）解析为构件类别
func ParsePartType(s string) (PartType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "room":
		return PartRoom, nil
	case "corridor":
		return PartCorridor, nil
	case "decoration":
		return PartDecoration, nil
	}
	return 0, fmt.Errorf("unknown part type %q", s)
}

// MarshalText 实现 encoding.TextMarshaler，配置文件中以名称表示类别
func (p PartType) MarshalText() ([]byte, error) {
	if p < PartRoom || p > PartDecoration {
		return nil, fmt.Errorf("invalid part type %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (p *PartType) UnmarshalText(text []byte) error {
	parsed, err := ParsePartType(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
