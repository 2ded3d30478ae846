// ABOUTME: Per-emulator summary with catalog completeness percentage
// ABOUTME: Combines the game files on disk with the document statistics

package emulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nainya/gamelist/pkg/gamedoc"
	"github.com/nainya/gamelist/pkg/gamelist"
)

// FieldsPerGame is the number of metadata elements a fully described game carries
const FieldsPerGame = 14

// Meta summarises one emulator source directory
type Meta struct {
	Name             string
	Directory        string
	GamefileElements int
	GameCount        int
	RomExtensions    []string
}

// CompletePercent is the share of expected metadata elements present in the
// document, 0 when the directory has no games
func (m Meta) CompletePercent() float64 {
	total := m.GameCount * FieldsPerGame
	if total == 0 {
		return 0
	}
	return float64(m.GamefileElements) / float64(total) * 100
}

func (m Meta) MarshalJSON() ([]byte, error) {
	exts := m.RomExtensions
	if exts == nil {
		exts = []string{}
	}
	return json.Marshal(struct {
		Name             string   `json:"name"`
		Directory        string   `json:"directory"`
		GamefileElements int      `json:"gamefile_elements"`
		GameCount        int      `json:"game_count"`
		RomExtensions    []string `json:"rom_extensions"`
		CompletePercent  float64  `json:"complete_percent"`
	}{m.Name, m.Directory, m.GamefileElements, m.GameCount, exts, m.CompletePercent()})
}

// Describe builds the Meta for a valid source directory. GameCount is the
// larger of the game files on disk and the games listed in the document.
func (p *Prober) Describe(dir string) (Meta, error) {
	if err := CheckDirectory(dir); err != nil {
		return Meta{}, err
	}
	exts, err := p.Extensions(dir)
	if err != nil {
		return Meta{}, err
	}
	files, err := ListGameFiles(dir, exts)
	if err != nil {
		return Meta{}, err
	}

	var st gamedoc.Stats
	data, err := os.ReadFile(filepath.Join(dir, gamedoc.DocumentFile))
	switch {
	case err == nil:
		st = gamedoc.Count(data)
	case !errors.Is(err, fs.ErrNotExist):
		return Meta{}, fmt.Errorf("read %s: %w", gamedoc.DocumentFile, err)
	}

	return Meta{
		Name:             gamelist.DirectoryName(dir),
		Directory:        dir,
		GamefileElements: st.Elements,
		GameCount:        max(len(files), st.Games),
		RomExtensions:    exts,
	}, nil
}

// List describes every valid source directory under root. Directories that
// fail to describe are skipped.
func (p *Prober) List(root string) ([]Meta, error) {
	dirs, err := ValidDirectories(root)
	if err != nil {
		return nil, err
	}
	metas := make([]Meta, 0, len(dirs))
	for _, dir := range dirs {
		m, err := p.Describe(dir)
		if err != nil {
			continue
		}
		metas = append(metas, m)
	}
	return metas, nil
}
