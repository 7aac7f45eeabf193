package animation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FrameExt is the extension of frame files picked up by LoadFrameSet.
const FrameExt = ".png"

// FrameSet is an ordered, immutable list of frame identifiers.
type FrameSet struct {
	name string
	ids  []string
}

// NewFrameSet returns a FrameSet holding a sorted copy of ids.
func NewFrameSet(name string, ids []string) FrameSet {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return FrameSet{name: name, ids: sorted}
}

// LoadFrameSet lists the PNG files in dir. A missing or unreadable directory
// yields an empty set along with the error.
func LoadFrameSet(dir string) (FrameSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return FrameSet{name: dir}, fmt.Errorf("failed to read frame directory %s: %w", dir, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), FrameExt) {
			ids = append(ids, filepath.Join(dir, entry.Name()))
		}
	}
	return NewFrameSet(dir, ids), nil
}

// Name returns the set's name, usually its directory.
func (s FrameSet) Name() string {
	return s.name
}

// Len returns the number of frames.
func (s FrameSet) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether the set has no frames.
func (s FrameSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// At returns the identifier at index i.
func (s FrameSet) At(i int) string {
	return s.ids[i]
}

// IDs returns a copy of the identifiers.
func (s FrameSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
