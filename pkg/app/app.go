// Package app 提供建造工具应用的核心包装器
//
// 该包负责组装配置、日志、碰撞世界、ECS、存档和各个系统，
// 并实现 ebiten.Game 接口。main.go 只负责解析参数和初始化嵌入资源。
package app

import (
	"fmt"
	"image/color"

	"github.com/decker502/basebuilder/pkg/components"
	"github.com/decker502/basebuilder/pkg/config"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/decker502/basebuilder/pkg/entities"
	"github.com/decker502/basebuilder/pkg/game"
	"github.com/decker502/basebuilder/pkg/modules"
	"github.com/decker502/basebuilder/pkg/physics"
	"github.com/decker502/basebuilder/pkg/systems"
	"github.com/decker502/basebuilder/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

const deltaTime = 1.0 / 60.0

var backgroundColor = color.RGBA{R: 24, G: 28, B: 34, A: 255}

// Config 定义应用启动配置
type Config struct {
	// Verbose 强制 debug 日志级别
	Verbose bool
	// ConfigPath 建造工具配置路径，为空时使用内置配置
	ConfigPath string
	// CatalogPath 建筑目录路径，为空时使用内置目录
	CatalogPath string
}

// App 建造工具应用，实现 ebiten.Game 接口
type App struct {
	config *config.BuildToolConfig
	logger *zap.Logger
	keys   utils.KeyMap

	entityManager *ecs.EntityManager
	world         *physics.World

	saveManager *game.SaveGameManager
	baseManager *systems.BaseManager
	buildings   *systems.BuildingSystem
	buildTool   *systems.BuildToolSystem
	camera      *systems.CameraSystem
	render      *systems.RenderSystem
	panel       *modules.BuildingPanelModule

	closeStore func() error
	status     string
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
// 返回前会尝试读档，读档失败只记录日志。
func NewApp(cfg Config) (*App, error) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.DefaultBuildToolConfigPath
	}
	toolConfig, err := config.LoadBuildToolConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	logger, err := NewLogger(toolConfig.Logging, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("日志初始化失败: %w", err)
	}

	catalogPath := cfg.CatalogPath
	if catalogPath == "" {
		catalogPath = config.DefaultCatalogPath
	}
	catalog, err := config.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("建筑目录加载失败: %w", err)
	}
	logger.Info("catalog loaded", zap.String("path", catalogPath), zap.Int("parts", len(catalog.Parts)))

	keys, err := utils.NewKeyMap(toolConfig.Keys)
	if err != nil {
		return nil, fmt.Errorf("按键配置无效: %w", err)
	}

	store, closeStore, err := openSaveStore(toolConfig.Save, logger.Named("SaveStore"))
	if err != nil {
		return nil, fmt.Errorf("存档初始化失败: %w", err)
	}

	em := ecs.NewEntityManager()
	world := physics.NewWorld()
	entities.NewGroundEntity(em, world, toolConfig.Ground.Size)

	// 订阅顺序：SaveGameManager 先于 BaseManager，保证建筑持有新快照中的记录
	saveLoad := game.NewSaveLoad(store, catalog, logger.Named("SaveLoad"))
	saveManager := game.NewSaveGameManager(saveLoad, logger.Named("SaveGameManager"))
	buildings := systems.NewBuildingSystem(em, world, saveManager, toolConfig.BuildTool.ProbeOffset, logger.Named("Building"))
	baseManager := systems.NewBaseManager(em, saveLoad, buildings, logger.Named("BaseManager"))

	camera := systems.NewCameraSystem(em, toolConfig.Camera)
	buildTool := systems.NewBuildToolSystem(em, world, buildings, toolConfig, logger.Named("BuildTool"))
	buildTool.SetCamera(camera.Camera(), camera.RayOrigin())

	a := &App{
		config:        toolConfig,
		logger:        logger,
		keys:          keys,
		entityManager: em,
		world:         world,
		saveManager:   saveManager,
		baseManager:   baseManager,
		buildings:     buildings,
		buildTool:     buildTool,
		camera:        camera,
		render:        systems.NewRenderSystem(em, toolConfig.BuildTool.DefaultGridSize, toolConfig.Ground.GridLines),
		panel:         modules.NewBuildingPanelModule(catalog, game.NewResourceManager(logger.Named("Resources")), logger.Named("BuildingPanel")),
		closeStore:    closeStore,
	}

	a.panel.OnPartChosen(buildTool.ChoosePart)
	buildTool.OnPlaced(a.onPlaced)
	buildTool.OnDeleted(a.onDeleted)
	saveLoad.OnSaveGame(func() {
		a.logger.Info("saving game", zap.Int("buildings", len(a.saveManager.Data().Buildings)))
	})

	if err := saveManager.TryLoadData(); err != nil {
		logger.Error("failed to load save", zap.Error(err))
		a.status = "Load failed"
	}

	ebiten.SetWindowTitle(toolConfig.Window.Title)
	ebiten.SetWindowSize(toolConfig.Window.Width, toolConfig.Window.Height)

	logger.Info("app initialized",
		zap.String("saveBackend", toolConfig.Save.Backend),
		zap.Int("buildings", len(saveManager.Data().Buildings)),
	)
	return a, nil
}

// openSaveStore 按配置打开存档后端
func openSaveStore(settings config.SaveSettings, logger *zap.Logger) (game.SaveStore, func() error, error) {
	switch settings.Backend {
	case config.SaveBackendSQLite:
		store, err := game.NewSQLiteSaveStore(settings.SQLitePath, settings.Slot)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using sqlite save store", zap.String("path", settings.SQLitePath))
		return store, store.Close, nil
	default:
		store := game.OpenGdataSaveStore(settings.AppName, settings.Slot, logger)
		return store, func() error { return nil }, nil
	}
}

// Update 更新逻辑
// 顺序：输入 -> 面板 -> 相机 -> 碰撞 -> 建造工具 -> 清理实体 -> 存档
func (a *App) Update() error {
	input := utils.PollFrameInput(a.keys)

	if a.panel.HandleInput(input.Pointer, input.TogglePanelPressed) {
		input.BuildTool.ConfirmPressed = false
	}

	a.camera.Update(deltaTime, input.Camera)
	a.world.Step()
	a.buildTool.Update(deltaTime, input.BuildTool)
	a.entityManager.RemoveMarkedEntities()

	if input.SavePressed {
		if err := a.saveManager.SaveData(); err != nil {
			a.logger.Error("save failed", zap.Error(err))
			a.status = "Save failed"
		} else {
			a.status = fmt.Sprintf("Saved %d buildings", len(a.saveManager.Data().Buildings))
		}
	}
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	a.render.Draw(screen, a.camera.ViewProjection(w, h))
	a.render.DrawCrosshair(screen)
	a.panel.Draw(screen)

	lines := []string{a.statusLine()}
	if a.status != "" {
		lines = append(lines, a.status)
	}
	a.render.DrawStatus(screen, lines)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.config.Window.Width, a.config.Window.Height
}

// Close 取消订阅并关闭存档后端，不保存
func (a *App) Close() error {
	a.baseManager.Close()
	a.saveManager.Close()
	err := a.closeStore()
	_ = a.logger.Sync()
	return err
}

func (a *App) statusLine() string {
	part := "-"
	if b := a.buildings.GetBuilding(a.buildTool.Preview()); b != nil {
		part = b.Data.DisplayName
	}
	return fmt.Sprintf("Mode: %s  Part: %s  Buildings: %d   [%s] delete  [%s] rotate  [%s] save  [%s] panel",
		a.buildTool.Mode(), part, len(a.saveManager.Data().Buildings),
		a.config.Keys.ToggleDelete, a.config.Keys.Rotate, a.config.Keys.Save, a.config.Keys.TogglePanel,
	)
}

func (a *App) onPlaced(id ecs.EntityID, building *components.BuildingComponent) {
	name := ""
	if node, ok := ecs.GetComponent[*components.NodeComponent](a.entityManager, id); ok {
		name = node.Name
	}
	a.logger.Info("building placed", zap.String("name", name), zap.String("part", building.Data.ID))
}

func (a *App) onDeleted(id ecs.EntityID, building *components.BuildingComponent) {
	name := ""
	if building.SaveData != nil {
		name = building.SaveData.Name
	}
	a.logger.Info("building deleted", zap.String("name", name), zap.String("part", building.Data.ID))
}
