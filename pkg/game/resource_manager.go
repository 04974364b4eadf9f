package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"path"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConfigNotLoaded is returned when resources are requested by ID
	// before LoadResourceConfig succeeded.
	ErrConfigNotLoaded = errors.New("resource config not loaded - call LoadResourceConfig first")
	// ErrResourceNotFound is returned for IDs missing from the resource table.
	ErrResourceNotFound = errors.New("resource ID not found")
)

// ResourceManager is responsible for centralized management of game assets.
// It loads images from a file system, decodes them and caches the decoded
// result so each file is read only once.
//
// Images are kept as decoded image.Image values. Converting them into a
// drawable handle is the job of the render backend, so the same manager
// serves the window, terminal and headless modes.
//
// Thread Safety Note:
// Loads may run on background goroutines (see LoadImageAsync), so the caches
// are guarded by a mutex.
//
// Usage:
//
//	rm := NewResourceManager(embedded.FS())
//	if err := rm.LoadResourceConfig("assets/config/resources.yaml"); err != nil {
//	    return err
//	}
//	img, err := rm.LoadImageByID("IMAGE_RUNNER")
type ResourceManager struct {
	fsys fs.FS

	mu         sync.RWMutex
	imageCache map[string]image.Image // Cache for decoded images: path -> Image

	// YAML resource configuration
	config      *ResourceConfig   // Parsed YAML configuration
	resourceMap map[string]string // Resource ID -> file path mapping for quick lookup
}

// NewResourceManager creates a ResourceManager reading from fsys.
//
// Parameters:
//   - fsys: The file system holding the resource tree. In the game binary this
//     is the embedded asset tree, tests pass an fstest.MapFS.
//
// Returns:
//   - A pointer to a newly initialized ResourceManager with empty caches.
func NewResourceManager(fsys fs.FS) *ResourceManager {
	return &ResourceManager{
		fsys:        fsys,
		imageCache:  make(map[string]image.Image),
		resourceMap: make(map[string]string),
	}
}

// LoadImage loads an image file from the specified path and caches it for future use.
// If the image has already been loaded, it returns the cached version.
// Supported formats: PNG and JPEG.
//
// Parameters:
//   - path: The file path to the image resource (e.g., "assets/images/samus.png").
//
// Returns:
//   - The decoded image.
//   - An error if the file cannot be opened or decoded.
func (rm *ResourceManager) LoadImage(path string) (image.Image, error) {
	if cached := rm.GetImage(path); cached != nil {
		return cached, nil
	}

	file, err := rm.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	rm.mu.Lock()
	rm.imageCache[path] = img
	rm.mu.Unlock()

	return img, nil
}

// GetImage retrieves a previously loaded image from the cache.
// If the image has not been loaded yet, it returns nil.
func (rm *ResourceManager) GetImage(path string) image.Image {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.imageCache[path]
}

// LoadResourceConfig loads and parses the YAML resource configuration file.
// It builds the resource ID -> path table used by the *ByID methods.
//
// Parameters:
//   - configPath: Path to the YAML configuration file (e.g., "assets/config/resources.yaml")
//
// Returns:
//   - An error if the file cannot be opened, parsed or fails validation
func (rm *ResourceManager) LoadResourceConfig(configPath string) error {
	data, err := fs.ReadFile(rm.fsys, configPath)
	if err != nil {
		return fmt.Errorf("failed to read resource config %s: %w", configPath, err)
	}

	var config ResourceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse resource config %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid resource config %s: %w", configPath, err)
	}

	rm.mu.Lock()
	rm.config = &config
	rm.buildResourceMap()
	count := len(rm.resourceMap)
	rm.mu.Unlock()

	log.Debug().Str("component", "ResourceManager").
		Str("path", configPath).Int("resources", count).
		Msg("resource config loaded")
	return nil
}

// buildResourceMap constructs a mapping from resource IDs to full file paths.
// For example:
//
//	IMAGE_RUNNER -> assets/images/samus.png
//
// Caller must hold rm.mu.
func (rm *ResourceManager) buildResourceMap() {
	rm.resourceMap = make(map[string]string)
	if rm.config == nil {
		return
	}

	for _, group := range rm.config.Groups {
		for _, img := range group.Images {
			fullPath := buildFullPath(rm.config.BasePath, img.Path)

			// Add file extension if not present
			if path.Ext(fullPath) == "" {
				fullPath += ".png"
			}

			rm.resourceMap[img.ID] = fullPath
		}
	}
}

// ResolvePath returns the file path registered for a resource ID.
func (rm *ResourceManager) ResolvePath(resourceID string) (string, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	if rm.config == nil {
		return "", ErrConfigNotLoaded
	}
	filePath, exists := rm.resourceMap[resourceID]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, resourceID)
	}
	return filePath, nil
}

// LoadImageByID loads an image resource using its resource ID.
// The resource ID must be defined in the YAML configuration file.
//
// Parameters:
//   - resourceID: The resource ID (e.g., "IMAGE_BACKGROUND")
//
// Returns:
//   - The decoded image
//   - An error if the ID is not found or the image cannot be loaded
func (rm *ResourceManager) LoadImageByID(resourceID string) (image.Image, error) {
	filePath, err := rm.ResolvePath(resourceID)
	if err != nil {
		return nil, err
	}
	return rm.LoadImage(filePath)
}

// GetImageByID retrieves a previously loaded image using its resource ID.
// If the image has not been loaded yet, it returns nil.
func (rm *ResourceManager) GetImageByID(resourceID string) image.Image {
	filePath, err := rm.ResolvePath(resourceID)
	if err != nil {
		return nil
	}
	return rm.GetImage(filePath)
}

// LoadResourceGroup loads all images in a specified group.
//
// Parameters:
//   - groupName: The name of the resource group (e.g., "run")
//
// Returns:
//   - An error if the group is not found or any resource fails to load
func (rm *ResourceManager) LoadResourceGroup(groupName string) error {
	rm.mu.RLock()
	if rm.config == nil {
		rm.mu.RUnlock()
		return ErrConfigNotLoaded
	}
	group, exists := rm.config.Groups[groupName]
	rm.mu.RUnlock()
	if !exists {
		return fmt.Errorf("resource group not found: %s", groupName)
	}

	for _, img := range group.Images {
		if _, err := rm.LoadImageByID(img.ID); err != nil {
			return fmt.Errorf("failed to load image %s in group %s: %w", img.ID, groupName, err)
		}
	}
	return nil
}

// LoadImageAsync starts loading an image on a background goroutine.
// The returned future completes exactly once with the image or an error.
func (rm *ResourceManager) LoadImageAsync(resourceID string) *ImageFuture {
	f := newImageFuture(resourceID)
	go func() {
		img, err := rm.LoadImageByID(resourceID)
		f.complete(img, err)
	}()
	return f
}

// LoadImageWithRetry loads an image, waiting at most timeout per attempt and
// retrying up to retries more times after a failed or timed-out attempt.
//
// A missing resource ID is not retried. Cancelling ctx stops immediately.
func (rm *ResourceManager) LoadImageWithRetry(ctx context.Context, resourceID string, timeout time.Duration, retries int) (image.Image, error) {
	logger := log.With().Str("component", "ResourceManager").Str("id", resourceID).Logger()

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		if attempt > 0 {
			logger.Warn().Int("attempt", attempt+1).Err(lastErr).Msg("retrying image load")
		}

		attemptCtx := ctx
		cancel := func() {}
		if timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		img, err := rm.LoadImageAsync(resourceID).Await(attemptCtx)
		cancel()

		if err == nil {
			return img, nil
		}
		lastErr = err
		if ctx.Err() != nil || errors.Is(err, ErrResourceNotFound) || errors.Is(err, ErrConfigNotLoaded) {
			break
		}
	}
	return nil, fmt.Errorf("failed to load image %s: %w", resourceID, lastErr)
}
