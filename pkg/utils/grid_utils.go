package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// GridPositionFromWorldPoint 将世界坐标点吸附到最近的网格点
// 每个轴独立计算：round(v / gridScale) * gridScale，四舍五入为远离零方向
//
// 参数:
//   - worldPos: 世界坐标
//   - gridScale: 网格单元尺寸，必须大于 0
//
// 返回:
//   - 每个分量都是 gridScale 整数倍的坐标
func GridPositionFromWorldPoint(worldPos mgl32.Vec3, gridScale float32) mgl32.Vec3 {
	return mgl32.Vec3{
		snapAxis(worldPos.X(), gridScale),
		snapAxis(worldPos.Y(), gridScale),
		snapAxis(worldPos.Z(), gridScale),
	}
}

func snapAxis(v, gridScale float32) float32 {
	cells := math.Round(float64(v) / float64(gridScale))
	snapped := float32(cells * float64(gridScale))
	// 避免 -0 出现在坐标和存档名称中
	if snapped == 0 {
		return 0
	}
	return snapped
}
