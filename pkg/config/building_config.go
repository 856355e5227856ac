package config

import (
	"fmt"

	"github.com/decker502/basebuilder/pkg/embedded"
	"github.com/decker502/basebuilder/pkg/types"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// DefaultCatalogPath 内置建筑目录路径
const DefaultCatalogPath = "data/catalog.yaml"

// ColliderConfig 预制体附带的次级碰撞体（相对建筑原点）
type ColliderConfig struct {
	Center mgl32.Vec3 `yaml:"center"`
	Size   mgl32.Vec3 `yaml:"size"`
}

// RendererConfig 预制体可视部分
type RendererConfig struct {
	Size  mgl32.Vec3 `yaml:"size"`  // 线框盒尺寸，省略时使用建筑尺寸
	Color string     `yaml:"color"` // 默认材质颜色 "#RRGGBB"
}

// PrefabConfig 预制体描述
type PrefabConfig struct {
	Renderer  *RendererConfig  `yaml:"renderer"`  // 为空表示预制体没有渲染器
	Colliders []ColliderConfig `yaml:"colliders"` // 为空表示没有次级碰撞体
}

// BuildingData 建筑目录条目
// 加载后不再修改，由所有同类建筑共享
type BuildingData struct {
	ID           string         `yaml:"id"`
	DisplayName  string         `yaml:"displayName"`
	Icon         string         `yaml:"icon"`         // 图标资源路径
	GridSnapSize float32        `yaml:"gridSnapSize"` // 网格吸附尺寸，0 表示使用建造工具默认值
	Size         mgl32.Vec3     `yaml:"size"`         // 建筑占地尺寸
	PartType     types.PartType `yaml:"partType"`
	Prefab       PrefabConfig   `yaml:"prefab"`

	defaultMaterial *types.Material
}

// DefaultMaterial 返回预制体渲染器的默认材质，没有渲染器时为 nil
func (d *BuildingData) DefaultMaterial() *types.Material {
	return d.defaultMaterial
}

// RendererSize 返回渲染器线框盒尺寸
func (d *BuildingData) RendererSize() mgl32.Vec3 {
	if d.Prefab.Renderer == nil || d.Prefab.Renderer.Size == (mgl32.Vec3{}) {
		return d.Size
	}
	return d.Prefab.Renderer.Size
}

// Catalog 建筑目录，保持配置文件中的顺序
type Catalog struct {
	Parts []*BuildingData `yaml:"parts"`

	byID map[string]*BuildingData
}

// LoadCatalog 从 YAML 文件加载建筑目录
// 路径以 data/ 开头时从嵌入资源读取，否则从磁盘读取
func LoadCatalog(path string) (*Catalog, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return catalog, nil
}

// ParseCatalog 解析并校验建筑目录
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if err := validateCatalog(&catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// validateCatalog 校验目录并建立索引
func validateCatalog(catalog *Catalog) error {
	if len(catalog.Parts) == 0 {
		return fmt.Errorf("at least one part is required")
	}

	catalog.byID = make(map[string]*BuildingData, len(catalog.Parts))
	for i, part := range catalog.Parts {
		if part == nil {
			return fmt.Errorf("part %d: empty entry", i)
		}
		if part.ID == "" {
			return fmt.Errorf("part %d: id is required", i)
		}
		if _, dup := catalog.byID[part.ID]; dup {
			return fmt.Errorf("part %s: duplicate id", part.ID)
		}
		if part.DisplayName == "" {
			part.DisplayName = part.ID
		}
		if part.Size.X() <= 0 || part.Size.Y() <= 0 || part.Size.Z() <= 0 {
			return fmt.Errorf("part %s: size must be positive, got %v", part.ID, part.Size)
		}
		if part.GridSnapSize < 0 {
			return fmt.Errorf("part %s: gridSnapSize cannot be negative, got %g", part.ID, part.GridSnapSize)
		}
		for j, col := range part.Prefab.Colliders {
			if col.Size.X() <= 0 || col.Size.Y() <= 0 || col.Size.Z() <= 0 {
				return fmt.Errorf("part %s: collider %d size must be positive", part.ID, j)
			}
		}
		if r := part.Prefab.Renderer; r != nil {
			c, err := types.ParseHexColor(r.Color)
			if err != nil {
				return fmt.Errorf("part %s: %w", part.ID, err)
			}
			part.defaultMaterial = &types.Material{Name: part.ID, Color: c}
		}
		catalog.byID[part.ID] = part
	}
	return nil
}

// Get 按 ID 查找条目
func (c *Catalog) Get(id string) (*BuildingData, bool) {
	data, ok := c.byID[id]
	return data, ok
}

// GetBuildingData 按 ID 查找条目，不存在时返回 nil
// 供存档反序列化解析条目引用
func (c *Catalog) GetBuildingData(id string) *BuildingData {
	return c.byID[id]
}

// Filter 返回指定类型的条目，保持目录顺序
func (c *Catalog) Filter(partType types.PartType) []*BuildingData {
	out := make([]*BuildingData, 0)
	for _, part := range c.Parts {
		if part.PartType == partType {
			out = append(out, part)
		}
	}
	return out
}
