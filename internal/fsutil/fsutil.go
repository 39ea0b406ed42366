package fsutil

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Glob returns the files under root matching pattern. The pattern uses
// doublestar syntax with forward slashes and is relative to root; results are
// root-joined paths in lexical order.
func Glob(fsys afero.Fs, root, pattern string) ([]string, error) {
	base := fsys
	if root != "" && root != "." {
		base = afero.NewBasePathFs(fsys, root)
	}
	matches, err := doublestar.Glob(afero.NewIOFS(base), path.Clean(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(root, filepath.FromSlash(m))
	}
	return out, nil
}
