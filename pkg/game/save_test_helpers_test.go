package game

import (
	"github.com/decker502/basebuilder/pkg/config"
	"github.com/go-gl/mathgl/mgl32"
)

// memoryStore 内存存档后端，测试用
type memoryStore struct {
	payload []byte
	writes  int
}

func (m *memoryStore) ReadSave() ([]byte, error) {
	if m.payload == nil {
		return nil, ErrNoSaveFile
	}
	return m.payload, nil
}

func (m *memoryStore) WriteSave(data []byte) error {
	m.payload = append([]byte(nil), data...)
	m.writes++
	return nil
}

// mapResolver 目录条目查找
type mapResolver map[string]*config.BuildingData

func (r mapResolver) GetBuildingData(id string) *config.BuildingData {
	return r[id]
}

func testEntries() mapResolver {
	return mapResolver{
		"room":     {ID: "room", DisplayName: "Room", Size: mgl32.Vec3{4, 3, 4}},
		"corridor": {ID: "corridor", DisplayName: "Corridor", Size: mgl32.Vec3{2, 3, 4}},
	}
}
