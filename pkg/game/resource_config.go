package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateResourceID is returned when two entries in the resource table
// share an ID.
var ErrDuplicateResourceID = errors.New("duplicate resource ID")

// ResourceConfig is the resource table loaded from assets/config/resources.yaml.
//
// Structure:
//
//	version: "1.0"
//	base_path: assets
//	groups:
//	  run:
//	    images:
//	      - id: IMAGE_BACKGROUND
//	        path: images/jungle_game_background.png
type ResourceConfig struct {
	Version  string                   `yaml:"version"`   // Table format version
	BasePath string                   `yaml:"base_path"` // Prefix joined to every relative path
	Groups   map[string]ResourceGroup `yaml:"groups"`    // Groups keyed by name, loaded together
}

// ResourceGroup is a set of images that are loaded together.
type ResourceGroup struct {
	Images []ImageResource `yaml:"images"`
}

// ImageResource maps an ID to a file. A path without an extension gets ".png".
type ImageResource struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// Validate checks that every entry has an ID and a path and that IDs are
// unique across all groups.
func (c *ResourceConfig) Validate() error {
	seen := make(map[string]string)
	for _, name := range c.GroupNames() {
		for i, img := range c.Groups[name].Images {
			if strings.TrimSpace(img.ID) == "" {
				return fmt.Errorf("group %s: image %d has no id", name, i)
			}
			if strings.TrimSpace(img.Path) == "" {
				return fmt.Errorf("group %s: image %s has no path", name, img.ID)
			}
			if prev, ok := seen[img.ID]; ok {
				return fmt.Errorf("%w: %s (groups %s and %s)", ErrDuplicateResourceID, img.ID, prev, name)
			}
			seen[img.ID] = name
		}
	}
	return nil
}

// GroupNames returns the group names in sorted order.
func (c *ResourceConfig) GroupNames() []string {
	names := make([]string, 0, len(c.Groups))
	for name := range c.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildFullPath joins basePath and relativePath with a single slash.
//
//	buildFullPath("assets", "images/samus.png") // "assets/images/samus.png"
func buildFullPath(basePath, relativePath string) string {
	if basePath == "" {
		return relativePath
	}
	return strings.TrimSuffix(basePath, "/") + "/" + strings.TrimPrefix(relativePath, "/")
}
