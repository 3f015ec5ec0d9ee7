// Package boom is an in-memory index of courses and lectures
// ("classes") with accumulated view time, answering membership
// mutation, view-time accumulation, point lookup, and i-th
// most-watched-lecture rank retrieval.
//
// A Boom instance is single-threaded and entirely in-memory; state is
// lost at Quit. Construct one with Init, and release it with Quit when
// done — every method on a quit (or nil) *Boom returns
// ErrInvalidInput, mirroring the original "null handle" contract.
package boom

import (
	"errors"
	"fmt"

	"github.com/watchboom/boom/internal/boomerr"
	"github.com/watchboom/boom/internal/boomlog"
	"github.com/watchboom/boom/internal/config"
	"github.com/watchboom/boom/internal/engine"
	"github.com/watchboom/boom/internal/version"
)

// Status is the four-value legacy status code (§6.1/§6.2): Success,
// Failure, AllocationError, InvalidInput.
type Status = boomerr.Status

const (
	Success         = boomerr.Success
	Failure         = boomerr.Failure
	AllocationError = boomerr.AllocationError
	InvalidInput    = boomerr.InvalidInput
)

// Sentinel errors every public method's returned error can be matched
// against with errors.Is.
var (
	ErrInvalidInput = boomerr.ErrInvalidInput
	ErrNotFound     = boomerr.ErrNotFound
	ErrConflict     = boomerr.ErrConflict
	ErrAllocation   = boomerr.ErrAllocation

	// ErrIncompatibleVersion is returned by Init when a WithMinVersion
	// constraint is not satisfied by this build.
	ErrIncompatibleVersion = errors.New("boom: incompatible version")
)

// StatusOf recovers the four-way legacy status classification for err.
func StatusOf(err error) Status { return boomerr.StatusOf(err) }

// initConfig accumulates InitOption effects before New is applied.
type initConfig struct {
	params      engine.Params
	log         *boomlog.Logger
	minVersion  string
	configPath  string
	watchConfig bool
}

// InitOption configures a Boom instance at construction time.
type InitOption func(*initConfig) error

// WithParams overrides the hash map load-factor band and the initial
// per-course lecture vector capacity. Overridden by WithConfigFile/
// WithConfigWatch if given afterward.
func WithParams(p engine.Params) InitOption {
	return func(c *initConfig) error {
		c.params = p
		return nil
	}
}

// WithConfigFile loads tunables once from a YAML file at path.
func WithConfigFile(path string) InitOption {
	return func(c *initConfig) error {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		c.params = paramsFromConfig(loaded)
		c.configPath = path
		return nil
	}
}

// WithConfigWatch is like WithConfigFile, but additionally starts a
// background fsnotify watch: each later revision of the file is
// reloaded and logged at Info (a failed reload at Warn). The running
// instance keeps the tunables it was constructed with; a reload does
// not change them.
func WithConfigWatch(path string) InitOption {
	return func(c *initConfig) error {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		c.params = paramsFromConfig(loaded)
		c.configPath = path
		c.watchConfig = true
		return nil
	}
}

// WithLogger installs a logger; the default discards every message.
func WithLogger(log *boomlog.Logger) InitOption {
	return func(c *initConfig) error {
		c.log = log
		return nil
	}
}

// WithMinVersion requires this build's version.Current to satisfy the
// given semver constraint (e.g. "^0.1.0"); Init fails fast with
// ErrIncompatibleVersion otherwise.
func WithMinVersion(constraint string) InitOption {
	return func(c *initConfig) error {
		c.minVersion = constraint
		return nil
	}
}

func paramsFromConfig(p config.Params) engine.Params {
	return engine.Params{
		HashInit:          p.Init,
		HashStress:        p.Stress,
		HashShrinkGuard:   p.ShrinkGuard,
		LectureInitialCap: engine.DefaultParams().LectureInitialCap,
		LectureGrowth:     p.GrowthFactor,
	}
}

// Boom is the coherence layer over a course→lecture hash map and a
// global lecture ranking tree.
type Boom struct {
	eng      *engine.Engine
	cfgWatch *config.Watcher
	closed   bool
}

// Init constructs a new Boom instance.
func Init(opts ...InitOption) (*Boom, error) {
	cfg := initConfig{params: engine.DefaultParams(), log: boomlog.Discard()}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.minVersion != "" {
		ok, err := version.Compatible(cfg.minVersion)
		if err != nil {
			return nil, fmt.Errorf("boom: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: build %s does not satisfy %q", ErrIncompatibleVersion, version.Current, cfg.minVersion)
		}
	}

	b := &Boom{eng: engine.New(cfg.params, nil, cfg.log)}

	if cfg.watchConfig {
		w, _, err := config.Watch(cfg.configPath)
		if err != nil {
			return nil, err
		}
		b.cfgWatch = w
		go b.applyConfigUpdates(w, cfg.log)
	}
	return b, nil
}

func (b *Boom) applyConfigUpdates(w *config.Watcher, log *boomlog.Logger) {
	for {
		select {
		case p, ok := <-w.Updates():
			if !ok {
				return
			}
			log.Infof("config reloaded: init=%d stress=%v shrink_guard=%v", p.Init, p.Stress, p.ShrinkGuard)
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			log.Warnf("config reload failed, keeping previous params: %v", err)
		}
	}
}

func (b *Boom) unusable() bool { return b == nil || b.closed }

// AddCourse installs course c, which must not already exist.
func (b *Boom) AddCourse(c int) error {
	if b.unusable() {
		return ErrInvalidInput
	}
	return b.eng.AddCourse(c)
}

// RemoveCourse deletes course c and every one of its lectures from the
// ranking tree.
func (b *Boom) RemoveCourse(c int) error {
	if b.unusable() {
		return ErrInvalidInput
	}
	return b.eng.RemoveCourse(c)
}

// AddClass appends a fresh, unwatched lecture to course c and reports
// its dense, course-local lecture ordinal.
func (b *Boom) AddClass(c int) (int, error) {
	if b.unusable() {
		return 0, ErrInvalidInput
	}
	return b.eng.AddClass(c)
}

// WatchClass adds t view-time units to lecture j of course c.
func (b *Boom) WatchClass(c, j, t int) error {
	if b.unusable() {
		return ErrInvalidInput
	}
	return b.eng.WatchClass(c, j, t)
}

// TimeViewed reports lecture j's accumulated view time for course c.
func (b *Boom) TimeViewed(c, j int) (int, error) {
	if b.unusable() {
		return 0, ErrInvalidInput
	}
	return b.eng.TimeViewed(c, j)
}

// GetIthWatchedClass reports the course and lecture ordinal of the
// i-th most-watched lecture system-wide (1-based; i==1 is the
// richest).
func (b *Boom) GetIthWatchedClass(i int) (int, int, error) {
	if b.unusable() {
		return 0, 0, ErrInvalidInput
	}
	return b.eng.GetIthWatchedClass(i)
}

// Quit releases the instance's resources (stopping any config watch)
// and marks it unusable; subsequent calls on the same handle return
// ErrInvalidInput.
func (b *Boom) Quit() error {
	if b.unusable() {
		return ErrInvalidInput
	}
	if b.cfgWatch != nil {
		_ = b.cfgWatch.Close()
	}
	b.closed = true
	return nil
}
