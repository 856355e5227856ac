package game

import (
	"encoding/json"
	"fmt"

	"github.com/decker502/basebuilder/pkg/config"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// BuildingSaveData 单个已放置建筑的存档记录
// 每个已放置建筑持有且只持有一条记录；SaveData 中按指针判断是否重复
type BuildingSaveData struct {
	Name         string
	AssignedData *config.BuildingData
	Position     mgl32.Vec3
	Rotation     mgl32.Quat
}

// NewBuildingSaveData 创建存档记录
func NewBuildingSaveData(name string, data *config.BuildingData, pos mgl32.Vec3, rot mgl32.Quat) *BuildingSaveData {
	return &BuildingSaveData{
		Name:         name,
		AssignedData: data,
		Position:     pos,
		Rotation:     rot,
	}
}

// SaveData 存档快照
// 读档时整体替换，放置/销毁建筑时增删记录，存档时整体序列化
type SaveData struct {
	Buildings []*BuildingSaveData
}

// NewSaveData 创建空快照
func NewSaveData() *SaveData {
	return &SaveData{Buildings: make([]*BuildingSaveData, 0)}
}

// Contains 判断记录是否已在快照中（指针比较）
func (d *SaveData) Contains(record *BuildingSaveData) bool {
	for _, r := range d.Buildings {
		if r == record {
			return true
		}
	}
	return false
}

// AddBuilding 追加记录，已存在时忽略
// 返回是否追加
func (d *SaveData) AddBuilding(record *BuildingSaveData) bool {
	if record == nil || d.Contains(record) {
		return false
	}
	d.Buildings = append(d.Buildings, record)
	return true
}

// RemoveBuilding 移除记录，返回是否移除
func (d *SaveData) RemoveBuilding(record *BuildingSaveData) bool {
	for i, r := range d.Buildings {
		if r == record {
			d.Buildings = append(d.Buildings[:i], d.Buildings[i+1:]...)
			return true
		}
	}
	return false
}

// BuildingDataResolver 根据条目 ID 查找目录条目，找不到返回 nil
type BuildingDataResolver interface {
	GetBuildingData(id string) *config.BuildingData
}

// 存档文件格式
type vec3JSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type quatJSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

type buildingRecordJSON struct {
	BuildingName string   `json:"buildingName"`
	AssignedData string   `json:"assignedData"`
	Position     vec3JSON `json:"position"`
	Rotation     quatJSON `json:"rotation"`
}

type saveFileJSON struct {
	BuildingSaveData []buildingRecordJSON `json:"buildingSaveData"`
}

// EncodeSaveData 将快照序列化为 JSON
func EncodeSaveData(d *SaveData) ([]byte, error) {
	file := saveFileJSON{BuildingSaveData: make([]buildingRecordJSON, 0, len(d.Buildings))}
	for _, r := range d.Buildings {
		id := ""
		if r.AssignedData != nil {
			id = r.AssignedData.ID
		}
		file.BuildingSaveData = append(file.BuildingSaveData, buildingRecordJSON{
			BuildingName: r.Name,
			AssignedData: id,
			Position:     vec3JSON{X: r.Position.X(), Y: r.Position.Y(), Z: r.Position.Z()},
			Rotation: quatJSON{
				X: r.Rotation.V.X(),
				Y: r.Rotation.V.Y(),
				Z: r.Rotation.V.Z(),
				W: r.Rotation.W,
			},
		})
	}

	data, err := json.MarshalIndent(file, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save data: %w", err)
	}
	return data, nil
}

// DecodeSaveData 反序列化快照
// 条目 ID 无法解析的记录被跳过并记录警告
func DecodeSaveData(data []byte, resolver BuildingDataResolver, logger *zap.Logger) (*SaveData, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var file saveFileJSON
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save data: %w", err)
	}

	out := NewSaveData()
	for i, rec := range file.BuildingSaveData {
		var entry *config.BuildingData
		if resolver != nil {
			entry = resolver.GetBuildingData(rec.AssignedData)
		}
		if entry == nil {
			logger.Warn("skipping save record with unknown building data",
				zap.Int("index", i),
				zap.String("name", rec.BuildingName),
				zap.String("assignedData", rec.AssignedData))
			continue
		}

		rot := mgl32.Quat{W: rec.Rotation.W, V: mgl32.Vec3{rec.Rotation.X, rec.Rotation.Y, rec.Rotation.Z}}
		if rot.Len() == 0 {
			rot = mgl32.QuatIdent()
		}
		out.Buildings = append(out.Buildings, NewBuildingSaveData(
			rec.BuildingName,
			entry,
			mgl32.Vec3{rec.Position.X, rec.Position.Y, rec.Position.Z},
			rot.Normalize(),
		))
	}
	return out, nil
}
