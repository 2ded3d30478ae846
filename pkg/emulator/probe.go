// ABOUTME: Directory validity probe for emulator source directories
// ABOUTME: A valid directory holds both the catalog document and _info.txt

package emulator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nainya/gamelist/pkg/gamedoc"
)

// InfoFile declares the ROM extensions an emulator accepts
const InfoFile = "_info.txt"

// RequiredFiles lists the marker files of a valid source directory
var RequiredFiles = []string{gamedoc.DocumentFile, InfoFile}

// CheckDirectory reports whether dir is a usable source directory
func CheckDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInvalidDirectory, dir)
	}
	for _, name := range RequiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("%w: %s has no %s", ErrMissingRequiredFiles, dir, name)
		}
	}
	return nil
}

// ValidDirectories returns the children of root that pass CheckDirectory,
// sorted by name
func ValidDirectories(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirectory, root)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableDirectory, root, err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if CheckDirectory(dir) == nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
