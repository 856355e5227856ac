package components

import (
	"github.com/decker502/basebuilder/pkg/types"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshRendererComponent 以线框盒表示的可渲染网格
// 盒体以实体位姿为底面中心，向上延伸 Size.Y
type MeshRendererComponent struct {
	Size     mgl32.Vec3
	Material *types.Material
	Visible  bool
}
