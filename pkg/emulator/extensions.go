// ABOUTME: Extension allow-list reader and game file listing
// ABOUTME: Prober caches parsed _info.txt allow-lists in an LRU

package emulator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

var extensionLine = regexp.MustCompile(`ROM files extensions accepted:\s+"((?:\s?\.[A-Za-z0-9]+)*)`)

// ParseExtensions extracts every declared extension from _info.txt content.
// Extensions are returned without their leading dot, in declaration order.
func ParseExtensions(content string) []string {
	var exts []string
	for _, m := range extensionLine.FindAllStringSubmatch(content, -1) {
		exts = append(exts, strings.Fields(strings.ReplaceAll(m[1], ".", " "))...)
	}
	return exts
}

// ReadExtensions reads the allow-list from dir's _info.txt. A file without a
// declaration line yields an empty list and no error.
func ReadExtensions(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, InfoFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", InfoFile, err)
	}
	return ParseExtensions(string(data)), nil
}

// ListGameFiles returns the full paths of regular files in dir whose
// extension is in allow, sorted by file name. Matching is case-sensitive.
func ListGameFiles(dir string, allow []string) ([]string, error) {
	if len(allow) == 0 {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableDirectory, dir, err)
	}

	accepted := make(map[string]struct{}, len(allow))
	for _, ext := range allow {
		accepted[ext] = struct{}{}
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(e.Name()), ".")
		if ext == "" {
			continue
		}
		if _, ok := accepted[ext]; ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// DefaultCacheSize bounds the Prober's allow-list cache
const DefaultCacheSize = 256

// Prober reads directory metadata and remembers parsed allow-lists until
// the _info.txt file changes. Safe for concurrent use.
type Prober struct {
	extensions *lru.Cache[string, []string]
}

// NewProber creates a Prober caching up to size allow-lists
func NewProber(size int) (*Prober, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &Prober{extensions: cache}, nil
}

// Extensions returns dir's allow-list, served from cache while _info.txt
// keeps the same modification time and size
func (p *Prober) Extensions(dir string) ([]string, error) {
	path := filepath.Join(dir, InfoFile)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", InfoFile, err)
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
	if cached, ok := p.extensions.Get(key); ok {
		return cached, nil
	}

	exts, err := ReadExtensions(dir)
	if err != nil {
		return nil, err
	}
	p.extensions.Add(key, exts)
	return exts, nil
}

// GameFiles lists dir's game files using the cached allow-list
func (p *Prober) GameFiles(dir string) ([]string, error) {
	exts, err := p.Extensions(dir)
	if err != nil {
		return nil, err
	}
	return ListGameFiles(dir, exts)
}

// CachedLists reports how many allow-lists are currently cached
func (p *Prober) CachedLists() int {
	return p.extensions.Len()
}
