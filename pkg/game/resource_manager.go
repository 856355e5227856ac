package game

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png" // Register PNG decoder

	"github.com/decker502/basebuilder/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// PlaceholderIconSize 占位图标边长
const PlaceholderIconSize = 48

// ResourceManager is responsible for loading and caching image resources.
// Images are loaded through the embedded package, so paths under "assets/"
// come from the binary and any other path is read from disk.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. It is only used from the game loop.
type ResourceManager struct {
	imageCache  map[string]*ebiten.Image
	placeholder *ebiten.Image
	logger      *zap.Logger
}

// NewResourceManager creates a ResourceManager with an empty cache.
func NewResourceManager(logger *zap.Logger) *ResourceManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceManager{
		imageCache: make(map[string]*ebiten.Image),
		logger:     logger,
	}
}

// LoadImage loads an image and caches it for future use.
// If the image has already been loaded, it returns the cached image.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// GetImage retrieves a previously loaded image from the cache, or nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// LoadIcon loads a catalog icon. Missing or broken icons are logged and
// replaced with a shared placeholder so the UI can still show the entry.
func (rm *ResourceManager) LoadIcon(path string) *ebiten.Image {
	if path == "" {
		return rm.Placeholder()
	}
	img, err := rm.LoadImage(path)
	if err != nil {
		rm.logger.Warn("icon unavailable, using placeholder", zap.String("path", path), zap.Error(err))
		rm.imageCache[path] = rm.Placeholder()
		return rm.imageCache[path]
	}
	return img
}

// Placeholder returns the placeholder icon, creating it on first use.
func (rm *ResourceManager) Placeholder() *ebiten.Image {
	if rm.placeholder == nil {
		rm.placeholder = ebiten.NewImageFromImage(placeholderImage(PlaceholderIconSize))
	}
	return rm.placeholder
}

func decodeImage(path string) (image.Image, error) {
	file, err := embedded.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// placeholderImage 灰底对角线图案
func placeholderImage(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	bg := color.RGBA{R: 90, G: 90, B: 90, A: 255}
	fg := color.RGBA{R: 200, G: 60, B: 60, A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x == y || x == size-1-y {
				img.Set(x, y, fg)
			} else {
				img.Set(x, y, bg)
			}
		}
	}
	return img
}
