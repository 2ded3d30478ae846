// ABOUTME: Opens emulator source directories into catalogs and saves them back
// ABOUTME: Ties the probe, document codec and reconciler together

// Package library loads and stores gamelist catalogs on disk
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/nainya/gamelist/pkg/emulator"
	"github.com/nainya/gamelist/pkg/field"
	"github.com/nainya/gamelist/pkg/gamedoc"
	"github.com/nainya/gamelist/pkg/gamelist"
)

// ErrEmptyCatalog is returned when saving a catalog without games
var ErrEmptyCatalog = errors.New("library: refusing to save an empty catalog")

// Observer receives the outcome of every catalog operation
type Observer interface {
	ObserveCatalog(op string, gl *gamelist.GameList, duration time.Duration, err error)
}

// Observers fans one operation out to several observers in order
func Observers(obs ...Observer) Observer {
	return multiObserver(obs)
}

type multiObserver []Observer

func (m multiObserver) ObserveCatalog(op string, gl *gamelist.GameList, duration time.Duration, err error) {
	for _, o := range m {
		o.ObserveCatalog(op, gl, duration, err)
	}
}

// Library opens and saves catalogs. It holds no catalog state, so one
// Library can serve concurrent callers.
type Library struct {
	log      zerolog.Logger
	prober   *emulator.Prober
	policy   *field.Policy
	observer Observer
}

// Option configures a Library
type Option func(*Library)

// WithLogger sets the logger used for operation summaries
func WithLogger(log zerolog.Logger) Option {
	return func(l *Library) { l.log = log }
}

// WithPolicy sets the field policy for opened catalogs
func WithPolicy(p *field.Policy) Option {
	return func(l *Library) { l.policy = p }
}

// WithProber shares a Prober and its extension cache
func WithProber(p *emulator.Prober) Option {
	return func(l *Library) { l.prober = p }
}

// WithObserver reports operations to o
func WithObserver(o Observer) Option {
	return func(l *Library) { l.observer = o }
}

// New creates a Library
func New(opts ...Option) (*Library, error) {
	l := &Library{
		log:    zerolog.Nop(),
		policy: field.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.prober == nil {
		p, err := emulator.NewProber(emulator.DefaultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create prober: %w", err)
		}
		l.prober = p
	}
	return l, nil
}

// Open builds the catalog for dir: games from the document first, then one
// game per unlisted file on disk. Invalid field values are reported but do
// not fail the open.
func (l *Library) Open(dir string) (gl *gamelist.GameList, err error) {
	start := time.Now()
	defer func() { l.observe("open", gl, start, err) }()

	if err := emulator.CheckDirectory(dir); err != nil {
		return nil, err
	}

	gl = gamelist.New(dir, gamelist.DirectoryName(dir), gamelist.WithPolicy(l.policy))

	data, err := os.ReadFile(filepath.Join(dir, gamedoc.DocumentFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", gamedoc.DocumentFile, err)
	}
	if err := gamedoc.Decode(data, gl); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	listed := gl.Len()

	files, err := l.prober.GameFiles(dir)
	if err != nil {
		return nil, err
	}
	added := gamelist.Reconcile(gl, files)

	event := l.log.Info()
	if n := gl.InvalidCount(); n > 0 {
		event = l.log.Warn().Int("invalid_fields", n)
	}
	event.
		Str("directory", dir).
		Int("listed", listed).
		Int("discovered", added).
		Msg("Catalog opened")
	for _, inv := range Invalid(gl) {
		l.log.Debug().
			Int("game", inv.GameID).
			Str("path", inv.Path).
			Str("field", inv.Field.Name()).
			Str("kind", inv.Field.Kind().String()).
			Str("reason", inv.Field.FormatError()).
			Msg("Invalid field value dropped")
	}

	return gl, nil
}

// Save writes gl's document into its directory, replacing the previous one
// atomically. Concurrent saves of the same directory are not coordinated.
func (l *Library) Save(gl *gamelist.GameList) (err error) {
	start := time.Now()
	defer func() { l.observe("save", gl, start, err) }()

	if gl.Len() == 0 {
		return ErrEmptyCatalog
	}
	info, err := os.Stat(gl.Directory)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", emulator.ErrInvalidDirectory, gl.Directory)
	}

	path := filepath.Join(gl.Directory, gamedoc.DocumentFile)
	if err := writeAtomic(path, gl); err != nil {
		return err
	}

	l.log.Info().
		Str("path", path).
		Int("games", gl.Len()).
		Msg("Catalog saved")
	return nil
}

// Emulators describes every valid source directory under root
func (l *Library) Emulators(root string) ([]emulator.Meta, error) {
	metas, err := l.prober.List(root)
	if err != nil {
		return nil, err
	}
	l.log.Debug().Str("root", root).Int("emulators", len(metas)).Msg("Emulators listed")
	return metas, nil
}

func (l *Library) observe(op string, gl *gamelist.GameList, start time.Time, err error) {
	if l.observer == nil {
		return
	}
	l.observer.ObserveCatalog(op, gl, time.Since(start), err)
}

func writeAtomic(path string, gl *gamelist.GameList) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	if err := gamedoc.Encode(f, gl); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
