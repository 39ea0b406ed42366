// Package repository knows where Device Repository documents are stored.
package repository

import (
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mehmetkoksal-w/lorawan-devices/internal/fsutil"
)

const (
	// VendorDir is the directory holding vendor folders, relative to the root.
	VendorDir = "vendor"
	// IndexFile is the name of every index document.
	IndexFile = "index.yaml"

	documentExt = ".yaml"
)

// DefaultVendorsIndex is the default location of the root vendors index.
var DefaultVendorsIndex = "./" + path.Join(VendorDir, IndexFile)

// Layout resolves document paths below a repository root.
type Layout struct {
	Root string
}

// VendorIndex returns the path of vendor/<vendorID>/index.yaml.
func (l Layout) VendorIndex(vendorID string) string {
	return filepath.Join(l.root(), VendorDir, vendorID, IndexFile)
}

// EndDevice returns the path of vendor/<vendorID>/<deviceID>.yaml.
func (l Layout) EndDevice(vendorID, deviceID string) string {
	return filepath.Join(l.root(), VendorDir, vendorID, deviceID+documentExt)
}

// Profile returns the path of vendor/<vendorID>/<profileID>.yaml.
func (l Layout) Profile(vendorID, profileID string) string {
	return filepath.Join(l.root(), VendorDir, vendorID, profileID+documentExt)
}

// Unreferenced lists the YAML documents in a vendor folder that are not in
// seen. Keys of seen are paths as returned by the Layout methods.
func (l Layout) Unreferenced(fsys afero.Fs, vendorID string, seen map[string]bool) ([]string, error) {
	matches, err := fsutil.Glob(fsys, l.root(), path.Join(VendorDir, vendorID, "*"+documentExt))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range matches {
		if !seen[m] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (l Layout) root() string {
	if l.Root == "" {
		return "."
	}
	return l.Root
}
