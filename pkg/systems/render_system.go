package systems

import (
	"image/color"

	"github.com/decker502/basebuilder/pkg/components"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 裁剪平面：齐次坐标 w 小于该值的部分视为在相机后方
const clipMinW = 0.05

var (
	gridColor      = color.RGBA{R: 70, G: 90, B: 70, A: 255}
	gridAxisColor  = color.RGBA{R: 110, G: 140, B: 110, A: 255}
	crosshairColor = color.RGBA{R: 255, G: 255, B: 255, A: 220}
	defaultColor   = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// boxEdges 线框盒 12 条边（索引对应 boxCorners 的顺序）
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// RenderSystem 以线框方式绘制地面网格和所有 MeshRenderer
type RenderSystem struct {
	entityManager *ecs.EntityManager
	gridSpacing   float32
	gridLines     int
}

// NewRenderSystem 创建渲染系统
// gridSpacing 为网格线间距，gridLines 为每个方向的网格线数量
func NewRenderSystem(em *ecs.EntityManager, gridSpacing float32, gridLines int) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		gridSpacing:   gridSpacing,
		gridLines:     gridLines,
	}
}

// Draw 绘制地面网格和建筑线框
func (s *RenderSystem) Draw(screen *ebiten.Image, viewProj mgl32.Mat4) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	s.drawGrid(screen, viewProj, float32(w), float32(h))

	for _, id := range ecs.GetEntitiesWith2[*components.MeshRendererComponent, *components.TransformComponent](s.entityManager) {
		renderer, _ := ecs.GetComponent[*components.MeshRendererComponent](s.entityManager, id)
		if !renderer.Visible {
			continue
		}
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		clr := defaultColor
		if renderer.Material != nil {
			clr = renderer.Material.Color
		}
		corners := boxCorners(tr.WorldPosition(), tr.WorldRotation(), renderer.Size)
		for _, e := range boxEdges {
			s.drawLine3D(screen, viewProj, corners[e[0]], corners[e[1]], float32(w), float32(h), 2, clr)
		}
	}
}

// DrawCrosshair 在屏幕中央绘制准星
func (s *RenderSystem) DrawCrosshair(screen *ebiten.Image) {
	cx := float32(screen.Bounds().Dx()) / 2
	cy := float32(screen.Bounds().Dy()) / 2
	vector.StrokeLine(screen, cx-8, cy, cx+8, cy, 1, crosshairColor, false)
	vector.StrokeLine(screen, cx, cy-8, cx, cy+8, 1, crosshairColor, false)
}

// DrawStatus 在左上角逐行绘制状态文字
func (s *RenderSystem) DrawStatus(screen *ebiten.Image, lines []string) {
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 8, 8+i*16)
	}
}

func (s *RenderSystem) drawGrid(screen *ebiten.Image, viewProj mgl32.Mat4, w, h float32) {
	if s.gridLines < 2 || s.gridSpacing <= 0 {
		return
	}
	half := float32(s.gridLines-1) / 2 * s.gridSpacing
	for i := 0; i < s.gridLines; i++ {
		offset := -half + float32(i)*s.gridSpacing
		clr := gridColor
		if mgl32.Abs(offset) < s.gridSpacing/2 {
			clr = gridAxisColor
		}
		s.drawLine3D(screen, viewProj, mgl32.Vec3{offset, 0, -half}, mgl32.Vec3{offset, 0, half}, w, h, 1, clr)
		s.drawLine3D(screen, viewProj, mgl32.Vec3{-half, 0, offset}, mgl32.Vec3{half, 0, offset}, w, h, 1, clr)
	}
}

func (s *RenderSystem) drawLine3D(screen *ebiten.Image, viewProj mgl32.Mat4, a, b mgl32.Vec3, w, h, width float32, clr color.Color) {
	x0, y0, x1, y1, ok := projectSegment(viewProj, a, b, w, h)
	if !ok {
		return
	}
	vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
}

// boxCorners 返回以 pos 为底面中心、旋转 rot 的盒体 8 个角点
// 前 4 个位于底面，后 4 个位于顶面
func boxCorners(pos mgl32.Vec3, rot mgl32.Quat, size mgl32.Vec3) [8]mgl32.Vec3 {
	hx, hz := size.X()/2, size.Z()/2
	local := [8]mgl32.Vec3{
		{-hx, 0, -hz}, {hx, 0, -hz}, {hx, 0, hz}, {-hx, 0, hz},
		{-hx, size.Y(), -hz}, {hx, size.Y(), -hz}, {hx, size.Y(), hz}, {-hx, size.Y(), hz},
	}
	var out [8]mgl32.Vec3
	for i, p := range local {
		out[i] = pos.Add(rot.Rotate(p))
	}
	return out
}

// projectSegment 将线段投影到屏幕，相机后方的部分被裁掉
func projectSegment(viewProj mgl32.Mat4, a, b mgl32.Vec3, w, h float32) (x0, y0, x1, y1 float32, ok bool) {
	ca := viewProj.Mul4x1(a.Vec4(1))
	cb := viewProj.Mul4x1(b.Vec4(1))
	if ca.W() < clipMinW && cb.W() < clipMinW {
		return 0, 0, 0, 0, false
	}
	if ca.W() < clipMinW {
		t := (clipMinW - ca.W()) / (cb.W() - ca.W())
		ca = ca.Add(cb.Sub(ca).Mul(t))
	} else if cb.W() < clipMinW {
		t := (clipMinW - cb.W()) / (ca.W() - cb.W())
		cb = cb.Add(ca.Sub(cb).Mul(t))
	}
	x0, y0 = toScreen(ca, w, h)
	x1, y1 = toScreen(cb, w, h)
	return x0, y0, x1, y1, true
}

func toScreen(clip mgl32.Vec4, w, h float32) (float32, float32) {
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return (ndcX + 1) / 2 * w, (1 - ndcY) / 2 * h
}
