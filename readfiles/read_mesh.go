package readfiles

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/ingest/types"
)

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (types.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".stl":
		return ReadSTL(filename)
	default:
		return types.Mesh{}, &UnsupportedFormatError{
			Path:   filename,
			Format: fmt.Sprintf("mesh format %q", ext),
		}
	}
}
