package modules

import (
	"image/color"

	"github.com/decker502/basebuilder/pkg/config"
	"github.com/decker502/basebuilder/pkg/game"
	"github.com/decker502/basebuilder/pkg/types"
	"github.com/decker502/basebuilder/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// 面板布局（屏幕像素）
const (
	panelX       = 8
	panelY       = 40
	panelColumns = 4
	panelGap     = 4
	tabHeight    = 22
	buttonWidth  = 64
	buttonHeight = 72
	iconSize     = 48
	sidePanelW   = 180
	sidePanelH   = 80
)

var (
	panelBgColor     = color.RGBA{R: 20, G: 24, B: 28, A: 200}
	tabColor         = color.RGBA{R: 50, G: 56, B: 64, A: 255}
	tabActiveColor   = color.RGBA{R: 90, G: 110, B: 130, A: 255}
	buttonColor      = color.RGBA{R: 40, G: 46, B: 52, A: 255}
	buttonBorder     = color.RGBA{R: 120, G: 130, B: 140, A: 255}
	buttonChosenEdge = color.RGBA{R: 240, G: 200, B: 80, A: 255}
)

// Rect 屏幕矩形
type Rect struct {
	X, Y, W, H float32
}

// Contains 判断屏幕点是否落在矩形内（含左上边界，不含右下边界）
func (r Rect) Contains(x, y int) bool {
	fx, fy := float32(x), float32(y)
	return fx >= r.X && fx < r.X+r.W && fy >= r.Y && fy < r.Y+r.H
}

// PanelTab 类别标签，Filter 为 nil 表示全部
type PanelTab struct {
	Label  string
	Filter *types.PartType
	Bounds Rect
}

// PartButton 构件按钮
type PartButton struct {
	Data   *config.BuildingData
	Icon   *ebiten.Image
	Bounds Rect
}

// BuildingPanelModule 建筑选择面板
// 封装类别标签、构件按钮和侧边信息栏：
//   - 点击标签切换类别过滤
//   - 点击按钮通知所有 OnPartChosen 订阅者，并在侧边栏显示图标和名称
//   - 面板可见时落在面板内的点击被消费，不会传给建造工具
type BuildingPanelModule struct {
	catalog         *config.Catalog
	resourceManager *game.ResourceManager
	logger          *zap.Logger

	visible   bool
	activeTab int
	tabs      []PanelTab
	buttons   []PartButton
	bounds    Rect

	// 侧边栏，初始为空
	chosen     *config.BuildingData
	chosenIcon *ebiten.Image

	onPartChosen []func(data *config.BuildingData)
}

// NewBuildingPanelModule 创建面板，默认可见并显示全部构件
func NewBuildingPanelModule(catalog *config.Catalog, rm *game.ResourceManager, logger *zap.Logger) *BuildingPanelModule {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &BuildingPanelModule{
		catalog:         catalog,
		resourceManager: rm,
		logger:          logger,
		visible:         true,
	}

	m.tabs = append(m.tabs, PanelTab{Label: "All"})
	for _, pt := range types.AllPartTypes() {
		filter := pt
		m.tabs = append(m.tabs, PanelTab{Label: pt.String(), Filter: &filter})
	}
	m.layoutTabs()
	m.SelectTab(0)

	logger.Info("building panel initialized", zap.Int("parts", len(catalog.Parts)))
	return m
}

// OnPartChosen 订阅构件选择事件
func (m *BuildingPanelModule) OnPartChosen(fn func(data *config.BuildingData)) {
	m.onPartChosen = append(m.onPartChosen, fn)
}

// Visible 面板是否可见
func (m *BuildingPanelModule) Visible() bool {
	return m.visible
}

// SetVisible 设置面板可见性
func (m *BuildingPanelModule) SetVisible(visible bool) {
	m.visible = visible
}

// Toggle 切换面板可见性
func (m *BuildingPanelModule) Toggle() {
	m.visible = !m.visible
	m.logger.Debug("panel toggled", zap.Bool("visible", m.visible))
}

// Tabs 返回所有标签
func (m *BuildingPanelModule) Tabs() []PanelTab {
	return m.tabs
}

// Buttons 返回当前标签下的按钮
func (m *BuildingPanelModule) Buttons() []PartButton {
	return m.buttons
}

// ActiveTab 当前标签索引
func (m *BuildingPanelModule) ActiveTab() int {
	return m.activeTab
}

// Bounds 面板外框
func (m *BuildingPanelModule) Bounds() Rect {
	return m.bounds
}

// Chosen 侧边栏当前显示的构件，未选择时为 nil
func (m *BuildingPanelModule) Chosen() *config.BuildingData {
	return m.chosen
}

// SelectTab 切换类别并重新排列按钮
func (m *BuildingPanelModule) SelectTab(index int) {
	if index < 0 || index >= len(m.tabs) {
		return
	}
	m.activeTab = index

	parts := m.catalog.Parts
	if filter := m.tabs[index].Filter; filter != nil {
		parts = m.catalog.Filter(*filter)
	}

	m.buttons = nil
	for i, data := range parts {
		col := i % panelColumns
		row := i / panelColumns
		m.buttons = append(m.buttons, PartButton{
			Data: data,
			Icon: m.resourceManager.LoadIcon(data.Icon),
			Bounds: Rect{
				X: panelX + panelGap + float32(col)*(buttonWidth+panelGap),
				Y: panelY + tabHeight + 2*panelGap + float32(row)*(buttonHeight+panelGap),
				W: buttonWidth,
				H: buttonHeight,
			},
		})
	}

	rows := (len(parts) + panelColumns - 1) / panelColumns
	if rows == 0 {
		rows = 1
	}
	m.bounds = Rect{
		X: panelX,
		Y: panelY,
		W: panelWidth(),
		H: tabHeight + 2*panelGap + float32(rows)*(buttonHeight+panelGap),
	}
}

// Choose 选择构件：更新侧边栏并通知订阅者
func (m *BuildingPanelModule) Choose(data *config.BuildingData) {
	if data == nil {
		return
	}
	m.chosen = data
	m.chosenIcon = m.resourceManager.LoadIcon(data.Icon)
	m.logger.Debug("part chosen", zap.String("part", data.ID))
	for _, fn := range m.onPartChosen {
		fn(data)
	}
}

// HandleInput 处理面板输入，返回 true 表示本帧的点击已被面板消费
func (m *BuildingPanelModule) HandleInput(pointer utils.InputState, togglePressed bool) bool {
	if togglePressed {
		m.Toggle()
	}
	if !m.visible || !pointer.JustPressed {
		return false
	}
	if !m.bounds.Contains(pointer.X, pointer.Y) {
		return false
	}

	for i, tab := range m.tabs {
		if tab.Bounds.Contains(pointer.X, pointer.Y) {
			m.SelectTab(i)
			return true
		}
	}
	for _, btn := range m.buttons {
		if btn.Bounds.Contains(pointer.X, pointer.Y) {
			m.Choose(btn.Data)
			return true
		}
	}
	return true
}

// Draw 绘制面板和侧边栏
func (m *BuildingPanelModule) Draw(screen *ebiten.Image) {
	m.drawSide(screen)
	if !m.visible {
		return
	}

	vector.DrawFilledRect(screen, m.bounds.X, m.bounds.Y, m.bounds.W, m.bounds.H, panelBgColor, false)

	for i, tab := range m.tabs {
		clr := tabColor
		if i == m.activeTab {
			clr = tabActiveColor
		}
		vector.DrawFilledRect(screen, tab.Bounds.X, tab.Bounds.Y, tab.Bounds.W, tab.Bounds.H, clr, false)
		ebitenutil.DebugPrintAt(screen, tab.Label, int(tab.Bounds.X)+4, int(tab.Bounds.Y)+3)
	}

	for _, btn := range m.buttons {
		b := btn.Bounds
		vector.DrawFilledRect(screen, b.X, b.Y, b.W, b.H, buttonColor, false)
		edge := buttonBorder
		if btn.Data == m.chosen {
			edge = buttonChosenEdge
		}
		vector.StrokeRect(screen, b.X, b.Y, b.W, b.H, 1, edge, false)
		drawIcon(screen, btn.Icon, b.X+(b.W-iconSize)/2, b.Y+2)
		ebitenutil.DebugPrintAt(screen, shortLabel(btn.Data.DisplayName), int(b.X)+2, int(b.Y)+iconSize+4)
	}
}

func (m *BuildingPanelModule) drawSide(screen *ebiten.Image) {
	if m.chosen == nil {
		return
	}
	x := float32(screen.Bounds().Dx()) - sidePanelW - panelX
	y := float32(panelY)
	vector.DrawFilledRect(screen, x, y, sidePanelW, sidePanelH, panelBgColor, false)
	drawIcon(screen, m.chosenIcon, x+panelGap, y+(sidePanelH-iconSize)/2)
	ebitenutil.DebugPrintAt(screen, m.chosen.DisplayName, int(x)+iconSize+2*panelGap, int(y)+sidePanelH/2-8)
}

func (m *BuildingPanelModule) layoutTabs() {
	n := float32(len(m.tabs))
	w := (panelWidth() - panelGap*(n+1)) / n
	for i := range m.tabs {
		m.tabs[i].Bounds = Rect{
			X: panelX + panelGap + float32(i)*(w+panelGap),
			Y: panelY + panelGap,
			W: w,
			H: tabHeight,
		}
	}
}

func panelWidth() float32 {
	return panelGap + panelColumns*(buttonWidth+panelGap)
}

// drawIcon 按图标尺寸缩放绘制
func drawIcon(screen, icon *ebiten.Image, x, y float32) {
	if icon == nil {
		return
	}
	w, h := icon.Bounds().Dx(), icon.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(iconSize)/float64(w), float64(iconSize)/float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(icon, op)
}

// shortLabel 截断按钮文字，调试字体每个字符 6 像素
func shortLabel(s string) string {
	maxChars := buttonWidth/6 - 1
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-1]) + "."
}
