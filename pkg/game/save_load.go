package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// SaveLoad 存档读写服务
// 存档前通知 OnSaveGame 订阅者；读档成功后把新快照交给 OnLoadGame 订阅者（按注册顺序）
type SaveLoad struct {
	store    SaveStore
	resolver BuildingDataResolver
	logger   *zap.Logger

	nextHandlerID int
	saveHandlers  []saveHandler
	loadHandlers  []loadHandler
}

type saveHandler struct {
	id int
	fn func()
}

type loadHandler struct {
	id int
	fn func(*SaveData)
}

// NewSaveLoad 创建存档读写服务
func NewSaveLoad(store SaveStore, resolver BuildingDataResolver, logger *zap.Logger) *SaveLoad {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaveLoad{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// OnSaveGame 注册存档通知，返回取消订阅函数
func (s *SaveLoad) OnSaveGame(fn func()) func() {
	s.nextHandlerID++
	id := s.nextHandlerID
	s.saveHandlers = append(s.saveHandlers, saveHandler{id: id, fn: fn})
	return func() {
		for i, h := range s.saveHandlers {
			if h.id == id {
				s.saveHandlers = append(s.saveHandlers[:i], s.saveHandlers[i+1:]...)
				return
			}
		}
	}
}

// OnLoadGame 注册读档通知，返回取消订阅函数
func (s *SaveLoad) OnLoadGame(fn func(*SaveData)) func() {
	s.nextHandlerID++
	id := s.nextHandlerID
	s.loadHandlers = append(s.loadHandlers, loadHandler{id: id, fn: fn})
	return func() {
		for i, h := range s.loadHandlers {
			if h.id == id {
				s.loadHandlers = append(s.loadHandlers[:i], s.loadHandlers[i+1:]...)
				return
			}
		}
	}
}

// Save 序列化快照并覆盖存档
func (s *SaveLoad) Save(data *SaveData) error {
	for _, h := range append([]saveHandler(nil), s.saveHandlers...) {
		h.fn()
	}

	payload, err := EncodeSaveData(data)
	if err != nil {
		return err
	}
	if err := s.store.WriteSave(payload); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}

	s.logger.Info("saving game", zap.Int("buildings", len(data.Buildings)))
	return nil
}

// Load 读取存档并通知订阅者
// 存档不存在时只记录日志，不通知订阅者，也不返回错误
func (s *SaveLoad) Load() error {
	payload, err := s.store.ReadSave()
	if errors.Is(err, ErrNoSaveFile) {
		s.logger.Info("save file does not exist")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read save: %w", err)
	}

	data, err := DecodeSaveData(payload, s.resolver, s.logger)
	if err != nil {
		return err
	}

	s.logger.Info("loading game", zap.Int("buildings", len(data.Buildings)))
	for _, h := range append([]loadHandler(nil), s.loadHandlers...) {
		h.fn(data)
	}
	return nil
}
