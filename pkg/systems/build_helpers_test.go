package systems

import (
	"testing"

	"github.com/decker502/basebuilder/pkg/components"
	"github.com/decker502/basebuilder/pkg/config"
	"github.com/decker502/basebuilder/pkg/ecs"
	"github.com/decker502/basebuilder/pkg/entities"
	"github.com/decker502/basebuilder/pkg/game"
	"github.com/decker502/basebuilder/pkg/physics"
	"github.com/decker502/basebuilder/pkg/utils"
	"github.com/go-gl/mathgl/mgl32"
)

const testCatalogYAML = `
parts:
  - id: room
    displayName: Room
    partType: Room
    size: [4, 3, 4]
    prefab:
      renderer:
        color: "#C8B48C"
      colliders:
        - center: [0, 1.5, 0]
          size: [4, 3, 4]
  - id: corridor
    displayName: Corridor
    partType: Corridor
    size: [2, 3, 4]
    prefab:
      renderer:
        color: "#8CA0B4"
      colliders:
        - center: [0, 1.5, 0]
          size: [2, 3, 4]
  - id: marker
    displayName: Marker
    partType: Decoration
    size: [1, 1, 1]
`

// memoryStore 内存存档，测试用
type memoryStore struct {
	data   []byte
	writes int
}

func (s *memoryStore) ReadSave() ([]byte, error) {
	if s.data == nil {
		return nil, game.ErrNoSaveFile
	}
	return s.data, nil
}

func (s *memoryStore) WriteSave(data []byte) error {
	s.data = append([]byte(nil), data...)
	s.writes++
	return nil
}

// buildFixture 组装一个完整的建造场景：地面、存档、建筑系统、建造工具和俯视相机
type buildFixture struct {
	em          *ecs.EntityManager
	world       *physics.World
	catalog     *config.Catalog
	cfg         *config.BuildToolConfig
	store       *memoryStore
	saveLoad    *game.SaveLoad
	saveManager *game.SaveGameManager
	buildings   *BuildingSystem
	baseManager *BaseManager
	tool        *BuildToolSystem
	camera      *components.CameraComponent
	origin      *components.TransformComponent
}

func newBuildFixture(t *testing.T, store *memoryStore) *buildFixture {
	t.Helper()

	cfg := config.DefaultBuildToolConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	catalog, err := config.ParseCatalog([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if store == nil {
		store = &memoryStore{}
	}

	em := ecs.NewEntityManager()
	world := physics.NewWorld()
	entities.NewGroundEntity(em, world, 200)

	saveLoad := game.NewSaveLoad(store, catalog, nil)
	saveManager := game.NewSaveGameManager(saveLoad, nil)
	bs := NewBuildingSystem(em, world, saveManager, cfg.BuildTool.ProbeOffset, nil)
	base := NewBaseManager(em, saveLoad, bs, nil)
	tool := NewBuildToolSystem(em, world, bs, cfg, nil)

	f := &buildFixture{
		em:          em,
		world:       world,
		catalog:     catalog,
		cfg:         cfg,
		store:       store,
		saveLoad:    saveLoad,
		saveManager: saveManager,
		buildings:   bs,
		baseManager: base,
		tool:        tool,
		camera:      &components.CameraComponent{Pitch: -mgl32.DegToRad(90), Fov: 70, Near: 0.1, Far: 200},
		origin:      components.NewTransformComponent(mgl32.Vec3{}),
	}
	f.aimAt(0, 0)
	tool.SetCamera(f.camera, f.origin)
	return f
}

// aimAt 相机移到 (x, 10, z) 正上方并垂直向下看
func (f *buildFixture) aimAt(x, z float32) {
	f.camera.Pitch = -mgl32.DegToRad(90)
	f.camera.Position = mgl32.Vec3{x, 10, z}
	f.origin.LocalPosition = f.camera.Position
}

// aimAway 相机朝天，射线不会命中任何物体
func (f *buildFixture) aimAway() {
	f.camera.Pitch = mgl32.DegToRad(90)
}

// tick 按主循环顺序推进一帧
func (f *buildFixture) tick(input utils.BuildToolInput) {
	f.world.Step()
	f.tool.Update(1.0/60, input)
	f.em.RemoveMarkedEntities()
}

func (f *buildFixture) part(t *testing.T, id string) *config.BuildingData {
	t.Helper()
	data := f.catalog.GetBuildingData(id)
	if data == nil {
		t.Fatalf("part %s missing from test catalog", id)
	}
	return data
}

// placeAt 在 (x, z) 处放置一个 id 类型的建筑，返回建筑实体
func (f *buildFixture) placeAt(t *testing.T, id string, x, z float32) ecs.EntityID {
	t.Helper()
	if f.tool.Mode() != BuildMode {
		f.tick(utils.BuildToolInput{ToggleDeletePressed: true})
	}
	if preview := f.tool.Preview(); preview == 0 || f.buildings.GetBuilding(preview).Data.ID != id {
		f.tool.ChoosePart(f.part(t, id))
	}
	f.aimAt(x, z)
	// 第一帧移动预览，第二帧以新位置的重叠结果确认
	f.tick(utils.BuildToolInput{})
	preview := f.tool.Preview()
	f.tick(utils.BuildToolInput{ConfirmPressed: true})

	building := f.buildings.GetBuilding(preview)
	if building == nil || building.State != components.BuildingStatePlaced {
		t.Fatalf("building %s at (%v, %v) was not placed", id, x, z)
	}
	return preview
}

// placedBuildings 返回所有已放置且未标记销毁的建筑
func (f *buildFixture) placedBuildings() []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.BuildingComponent](f.em) {
		if b := f.buildings.GetBuilding(id); b != nil && b.State == components.BuildingStatePlaced {
			out = append(out, id)
		}
	}
	return out
}

func (f *buildFixture) flaggedCount() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.BuildingComponent](f.em) {
		if b := f.buildings.GetBuilding(id); b != nil && b.FlaggedForDelete {
			n++
		}
	}
	return n
}

func utilsToggle() utils.BuildToolInput  { return utils.BuildToolInput{ToggleDeletePressed: true} }
func utilsConfirm() utils.BuildToolInput { return utils.BuildToolInput{ConfirmPressed: true} }
