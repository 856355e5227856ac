package config

import (
	"fmt"

	"github.com/decker502/basebuilder/pkg/embedded"
	"github.com/decker502/basebuilder/pkg/physics"
	"github.com/decker502/basebuilder/pkg/types"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultBuildToolConfigPath 内置建造工具配置路径
const DefaultBuildToolConfigPath = "data/build_tool.yaml"

// 存档后端
const (
	SaveBackendGdata  = "gdata"
	SaveBackendSQLite = "sqlite"
)

// BuildToolSettings 建造工具参数
type BuildToolSettings struct {
	RayDistance     float32  `yaml:"rayDistance"`     // 射线最大距离
	RotateStep      float32  `yaml:"rotateStep"`      // 每次旋转的角度（度）
	DefaultGridSize float32  `yaml:"defaultGridSize"` // 条目未指定吸附尺寸时使用
	ProbeOffset     float32  `yaml:"probeOffset"`     // 包围盒探针的垂直偏移
	BuildLayers     []string `yaml:"buildLayers"`     // 建造模式射线检测的图层
	DeleteLayers    []string `yaml:"deleteLayers"`    // 删除模式射线检测的图层
}

// KeyBindings 按键绑定（ebiten 按键名称）
type KeyBindings struct {
	ToggleDelete string `yaml:"toggleDelete"`
	Rotate       string `yaml:"rotate"`
	Save         string `yaml:"save"`
	TogglePanel  string `yaml:"togglePanel"`
}

// MaterialSettings 建造工具使用的材质颜色
type MaterialSettings struct {
	Positive string `yaml:"positive"` // 可放置
	Negative string `yaml:"negative"` // 不可放置
	Delete   string `yaml:"delete"`   // 标记删除
}

// CameraSettings 相机初始状态与移动参数
type CameraSettings struct {
	Position  mgl32.Vec3 `yaml:"position"`
	Yaw       float32    `yaml:"yaw"`   // 度
	Pitch     float32    `yaml:"pitch"` // 度
	Fov       float32    `yaml:"fov"`   // 度
	Near      float32    `yaml:"near"`
	Far       float32    `yaml:"far"`
	MoveSpeed float32    `yaml:"moveSpeed"` // 单位/秒
	LookSpeed float32    `yaml:"lookSpeed"` // 度/秒
}

// GroundSettings 可建造地面
type GroundSettings struct {
	Size      float32 `yaml:"size"`      // 地面边长
	GridLines int     `yaml:"gridLines"` // 渲染的网格线数量（每个方向）
}

// SaveSettings 存档配置
type SaveSettings struct {
	Backend    string `yaml:"backend"`    // gdata 或 sqlite
	AppName    string `yaml:"appName"`    // gdata 应用名称
	SQLitePath string `yaml:"sqlitePath"` // sqlite 数据库文件
	Slot       string `yaml:"slot"`       // 存档槽位（文件名）
}

// LoggingSettings 日志配置
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console 或 json
}

// WindowSettings 窗口配置
type WindowSettings struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// BuildToolConfig 应用配置
type BuildToolConfig struct {
	BuildTool BuildToolSettings `yaml:"buildTool"`
	Keys      KeyBindings       `yaml:"keys"`
	Materials MaterialSettings  `yaml:"materials"`
	Camera    CameraSettings    `yaml:"camera"`
	Ground    GroundSettings    `yaml:"ground"`
	Save      SaveSettings      `yaml:"save"`
	Logging   LoggingSettings   `yaml:"logging"`
	Window    WindowSettings    `yaml:"window"`

	buildMask  physics.LayerMask
	deleteMask physics.LayerMask
	positive   *types.Material
	negative   *types.Material
	deleteMat  *types.Material
}

// DefaultBuildToolConfig 返回默认配置（尚未校验）
func DefaultBuildToolConfig() *BuildToolConfig {
	return &BuildToolConfig{
		BuildTool: BuildToolSettings{
			RayDistance:     50,
			RotateStep:      90,
			DefaultGridSize: 1,
			ProbeOffset:     0.05,
			BuildLayers:     []string{"buildable"},
			DeleteLayers:    []string{"deletable"},
		},
		Keys: KeyBindings{
			ToggleDelete: "Q",
			Rotate:       "R",
			Save:         "F5",
			TogglePanel:  "Tab",
		},
		Materials: MaterialSettings{
			Positive: "#40D060FF",
			Negative: "#E04040FF",
			Delete:   "#FF9020FF",
		},
		Camera: CameraSettings{
			Position:  mgl32.Vec3{0, 8, 14},
			Pitch:     -30,
			Fov:       70,
			Near:      0.1,
			Far:       200,
			MoveSpeed: 8,
			LookSpeed: 90,
		},
		Ground: GroundSettings{Size: 200, GridLines: 41},
		Save: SaveSettings{
			Backend:    SaveBackendGdata,
			AppName:    "basebuilder",
			SQLitePath: "basebuilder.db",
			Slot:       "SaveGame.sav",
		},
		Logging: LoggingSettings{Level: "info", Format: "console"},
		Window:  WindowSettings{Width: 1280, Height: 720, Title: "Base Builder"},
	}
}

// LoadBuildToolConfig 加载配置：以默认值为基础，文件中出现的字段覆盖默认值
func LoadBuildToolConfig(path string) (*BuildToolConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build tool config %s: %w", path, err)
	}

	cfg, err := ParseBuildToolConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid build tool config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseBuildToolConfig 解析并校验配置
func ParseBuildToolConfig(data []byte) (*BuildToolConfig, error) {
	cfg := DefaultBuildToolConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse build tool YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置并解析图层掩码和材质
func (c *BuildToolConfig) Validate() error {
	bt := c.BuildTool
	if bt.RayDistance <= 0 {
		return fmt.Errorf("buildTool.rayDistance must be positive, got %g", bt.RayDistance)
	}
	if bt.RotateStep == 0 {
		return fmt.Errorf("buildTool.rotateStep cannot be zero")
	}
	if bt.DefaultGridSize <= 0 {
		return fmt.Errorf("buildTool.defaultGridSize must be positive, got %g", bt.DefaultGridSize)
	}
	if bt.ProbeOffset < 0 {
		return fmt.Errorf("buildTool.probeOffset cannot be negative, got %g", bt.ProbeOffset)
	}

	var err error
	if c.buildMask, err = physics.ParseLayerMask(bt.BuildLayers); err != nil {
		return fmt.Errorf("buildTool.buildLayers: %w", err)
	}
	if c.deleteMask, err = physics.ParseLayerMask(bt.DeleteLayers); err != nil {
		return fmt.Errorf("buildTool.deleteLayers: %w", err)
	}

	if c.positive, err = types.NewMaterial("positive", c.Materials.Positive); err != nil {
		return fmt.Errorf("materials.positive: %w", err)
	}
	if c.negative, err = types.NewMaterial("negative", c.Materials.Negative); err != nil {
		return fmt.Errorf("materials.negative: %w", err)
	}
	if c.deleteMat, err = types.NewMaterial("delete", c.Materials.Delete); err != nil {
		return fmt.Errorf("materials.delete: %w", err)
	}

	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("camera.fov must be in (0, 180), got %g", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera near/far invalid: %g/%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Ground.Size <= 0 {
		return fmt.Errorf("ground.size must be positive, got %g", c.Ground.Size)
	}

	switch c.Save.Backend {
	case SaveBackendGdata:
		if c.Save.AppName == "" {
			return fmt.Errorf("save.appName is required for the gdata backend")
		}
	case SaveBackendSQLite:
		if c.Save.SQLitePath == "" {
			return fmt.Errorf("save.sqlitePath is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown save backend %q", c.Save.Backend)
	}
	if c.Save.Slot == "" {
		return fmt.Errorf("save.slot is required")
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// BuildMask 建造模式射线图层掩码
func (c *BuildToolConfig) BuildMask() physics.LayerMask { return c.buildMask }

// DeleteMask 删除模式射线图层掩码
func (c *BuildToolConfig) DeleteMask() physics.LayerMask { return c.deleteMask }

// PositiveMaterial 可放置材质
func (c *BuildToolConfig) PositiveMaterial() *types.Material { return c.positive }

// NegativeMaterial 不可放置材质
func (c *BuildToolConfig) NegativeMaterial() *types.Material { return c.negative }

// DeleteMaterial 标记删除材质
func (c *BuildToolConfig) DeleteMaterial() *types.Material { return c.deleteMat }

// GridSizeFor 返回条目的网格吸附尺寸
func (c *BuildToolConfig) GridSizeFor(data *BuildingData) float32 {
	if data != nil && data.GridSnapSize > 0 {
		return data.GridSnapSize
	}
	return c.BuildTool.DefaultGridSize
}
