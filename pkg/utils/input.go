// Package utils 提供通用工具函数
package utils

import (
	"fmt"

	"github.com/decker502/basebuilder/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState 存储当前帧的指针输入状态
// 用于统一处理鼠标和触摸输入
type InputState struct {
	// 是否有点击/触摸事件刚刚发生
	JustPressed bool
	// 点击/触摸位置
	X, Y int
	// 是否有活动的触摸
	IsTouching bool
}

// GetInputState 获取当前帧的指针输入状态
// 同时支持鼠标点击和触摸输入，优先检测触摸
func GetInputState() InputState {
	state := InputState{}

	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		state.JustPressed = true
		state.X, state.Y = ebiten.TouchPosition(touchIDs[0])
		state.IsTouching = true
		return state
	}

	allTouchIDs := ebiten.AppendTouchIDs(nil)
	if len(allTouchIDs) > 0 {
		state.X, state.Y = ebiten.TouchPosition(allTouchIDs[0])
		state.IsTouching = true
		return state
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		state.JustPressed = true
	}
	state.X, state.Y = ebiten.CursorPosition()
	return state
}

// KeyMap 已解析的按键绑定
type KeyMap struct {
	ToggleDelete ebiten.Key
	Rotate       ebiten.Key
	Save         ebiten.Key
	TogglePanel  ebiten.Key
}

// ParseKey 将 ebiten 按键名称（如 "Q"、"F5"、"Tab"，不区分大小写）解析为按键
func ParseKey(name string) (ebiten.Key, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown key %q: %w", name, err)
	}
	return k, nil
}

// NewKeyMap 根据配置解析按键绑定
func NewKeyMap(bindings config.KeyBindings) (KeyMap, error) {
	var km KeyMap
	var err error
	if km.ToggleDelete, err = ParseKey(bindings.ToggleDelete); err != nil {
		return km, fmt.Errorf("keys.toggleDelete: %w", err)
	}
	if km.Rotate, err = ParseKey(bindings.Rotate); err != nil {
		return km, fmt.Errorf("keys.rotate: %w", err)
	}
	if km.Save, err = ParseKey(bindings.Save); err != nil {
		return km, fmt.Errorf("keys.save: %w", err)
	}
	if km.TogglePanel, err = ParseKey(bindings.TogglePanel); err != nil {
		return km, fmt.Errorf("keys.togglePanel: %w", err)
	}
	return km, nil
}

// BuildToolInput 建造工具本帧的边沿触发输入
type BuildToolInput struct {
	ToggleDeletePressed bool
	RotatePressed       bool
	ConfirmPressed      bool
}

// CameraInput 相机本帧的持续输入，各轴取值 -1、0 或 1
type CameraInput struct {
	Forward float32
	Right   float32
	Up      float32
	Yaw     float32 // 正值向左转
	Pitch   float32 // 正值抬头
}

// FrameInput 一帧的全部输入快照
type FrameInput struct {
	Pointer            InputState
	BuildTool          BuildToolInput
	Camera             CameraInput
	SavePressed        bool
	TogglePanelPressed bool
}

// PollFrameInput 读取本帧输入
// 必须在 ebiten Update 中调用，每帧一次
func PollFrameInput(keys KeyMap) FrameInput {
	pointer := GetInputState()
	return FrameInput{
		Pointer: pointer,
		BuildTool: BuildToolInput{
			ToggleDeletePressed: inpututil.IsKeyJustPressed(keys.ToggleDelete),
			RotatePressed:       inpututil.IsKeyJustPressed(keys.Rotate),
			ConfirmPressed:      pointer.JustPressed,
		},
		Camera: CameraInput{
			Forward: Axis(ebiten.IsKeyPressed(ebiten.KeyS), ebiten.IsKeyPressed(ebiten.KeyW)),
			Right:   Axis(ebiten.IsKeyPressed(ebiten.KeyA), ebiten.IsKeyPressed(ebiten.KeyD)),
			Up:      Axis(ebiten.IsKeyPressed(ebiten.KeyShiftLeft), ebiten.IsKeyPressed(ebiten.KeySpace)),
			Yaw:     Axis(ebiten.IsKeyPressed(ebiten.KeyArrowRight), ebiten.IsKeyPressed(ebiten.KeyArrowLeft)),
			Pitch:   Axis(ebiten.IsKeyPressed(ebiten.KeyArrowDown), ebiten.IsKeyPressed(ebiten.KeyArrowUp)),
		},
		SavePressed:        inpututil.IsKeyJustPressed(keys.Save),
		TogglePanelPressed: inpututil.IsKeyJustPressed(keys.TogglePanel),
	}
}

// Axis 将一对相反方向的按键合成为 -1、0 或 1
func Axis(negative, positive bool) float32 {
	var v float32
	if negative {
		v--
	}
	if positive {
		v++
	}
	return v
}
