// Package engine is the coherence layer tying a course→lecture hash
// map to a single global lecture ranking tree: the "Boom" of the
// specification, kept here as an internal package so the public boom
// package can wrap it with the status/error bridge and the
// config/version gates.
package engine

import (
	"github.com/watchboom/boom/internal/boomerr"
	"github.com/watchboom/boom/internal/boomlog"
	"github.com/watchboom/boom/internal/hashmap"
	"github.com/watchboom/boom/internal/ranktree"
	"github.com/watchboom/boom/internal/sparsearray"
)

// LectureRecord is the unit of state shared between a course's lecture
// vector and the global ranking tree.
type LectureRecord struct {
	Views   int
	Course  int
	Lecture int
}

// Less orders LectureRecords by watch-order: views ascending, with
// course and lecture both inverted at ties so that descending the
// ranking tree from its richest end visits the smallest course id
// first, and within a course the smallest lecture ordinal first.
func Less(a, b LectureRecord) bool {
	if a.Views != b.Views {
		return a.Views < b.Views
	}
	if a.Course != b.Course {
		return a.Course > b.Course
	}
	return a.Lecture > b.Lecture
}

// courseTable is a single course's per-lecture state: a sparse vector
// of LectureRecords plus the next lecture ordinal to hand out.
type courseTable struct {
	lectures *sparsearray.SparseArray[LectureRecord]
	top      int
}

func newCourseTable(initCap, growth int) *courseTable {
	return &courseTable{
		lectures: sparsearray.NewGrowable[LectureRecord](initCap, LectureRecord{}, growth),
	}
}

// Params governs both the courses hash map's load-factor band and the
// initial per-course lecture vector capacity/growth.
type Params struct {
	HashInit          int
	HashStress        float64
	HashShrinkGuard   float64
	LectureInitialCap int
	LectureGrowth     int
}

// DefaultParams mirrors the specification's literal tunables.
func DefaultParams() Params {
	return Params{HashInit: 10, HashStress: 2, HashShrinkGuard: 0.5, LectureInitialCap: 4, LectureGrowth: 2}
}

// Engine is the coherence layer: one hash map from course id to
// courseTable, and one ranking tree over every watched lecture in the
// system.
type Engine struct {
	params  Params
	alloc   hashmap.Allocator
	log     *boomlog.Logger
	courses *hashmap.HashMap[*courseTable]
	ranking *ranktree.Tree[LectureRecord]
}

// New builds an empty Engine. A nil alloc uses hashmap.RealAllocator; a
// nil log discards every message.
func New(params Params, alloc hashmap.Allocator, log *boomlog.Logger) *Engine {
	if alloc == nil {
		alloc = hashmap.RealAllocator
	}
	hp := hashmap.Params{Init: params.HashInit, Stress: params.HashStress, ShrinkGuard: params.HashShrinkGuard}
	return &Engine{
		params:  params,
		alloc:   alloc,
		log:     log,
		courses: hashmap.New[*courseTable](hp, alloc),
		ranking: ranktree.New[LectureRecord](Less),
	}
}

// AddCourse installs a new, empty CourseTable for c.
func (e *Engine) AddCourse(c int) error {
	if c <= 0 {
		return boomerr.ErrInvalidInput
	}
	if e.courses.Find(c) {
		return boomerr.ErrConflict
	}
	_ = e.courses.Insert(c, newCourseTable(e.params.LectureInitialCap, e.params.LectureGrowth))
	e.log.Debugf("course %d added", c)
	return nil
}

// RemoveCourse erases every one of c's lectures from the ranking tree,
// then erases c itself.
func (e *Engine) RemoveCourse(c int) error {
	if c <= 0 {
		return boomerr.ErrInvalidInput
	}
	ct, err := e.courses.Get(c)
	if err != nil {
		return boomerr.ErrNotFound
	}
	for j := 0; j < ct.top; j++ {
		if !ct.lectures.IsInitialized(j) {
			continue
		}
		r, _ := ct.lectures.Get(j)
		if r.Views > 0 {
			e.ranking.Erase(r)
		}
	}
	e.courses.Erase(c)
	e.log.Debugf("course %d removed", c)
	return nil
}

// AddClass appends a fresh zero-view lecture to course c and reports
// its lecture ordinal. Per the zero-view-lecture design decision, it
// is not inserted into the ranking tree until its first WatchClass.
func (e *Engine) AddClass(c int) (int, error) {
	if c <= 0 {
		return 0, boomerr.ErrInvalidInput
	}
	ct, err := e.courses.Get(c)
	if err != nil {
		return 0, boomerr.ErrNotFound
	}
	j := ct.top
	rec := LectureRecord{Views: 0, Course: c, Lecture: j}
	if err := ct.lectures.Store(j, rec); err != nil {
		e.log.Warnf("course %d: class %d could not be stored: %v", c, j, err)
		return 0, boomerr.ErrAllocation
	}
	ct.top++
	e.log.Debugf("course %d: class %d added", c, j)
	return j, nil
}

// WatchClass adds t view-time units to lecture j of course c, keeping
// the ranking tree coherent with the per-course record: the
// replacement record is computed first, so the only possible failure
// point (the Allocator seam) is checked before the stale ranking entry
// is erased.
func (e *Engine) WatchClass(c, j, t int) error {
	if c <= 0 || j < 0 || t <= 0 {
		return boomerr.ErrInvalidInput
	}
	ct, err := e.courses.Get(c)
	if err != nil {
		return boomerr.ErrNotFound
	}
	if j >= ct.top {
		return boomerr.ErrInvalidInput
	}
	old, err := ct.lectures.Get(j)
	if err != nil {
		e.log.Warnf("course %d: class %d lookup failed: %v", c, j, err)
		return boomerr.ErrAllocation
	}
	updated := LectureRecord{Views: old.Views + t, Course: c, Lecture: j}

	if err := e.alloc.TryAlloc(1); err != nil {
		return boomerr.ErrAllocation
	}

	if err := ct.lectures.Store(j, updated); err != nil {
		e.log.Warnf("course %d: class %d update failed: %v", c, j, err)
		return boomerr.ErrAllocation
	}
	if old.Views > 0 {
		e.ranking.Erase(old)
	}
	e.ranking.Insert(updated)
	e.log.Debugf("course %d: class %d watched for %d (total %d)", c, j, t, updated.Views)
	return nil
}

// TimeViewed reports lecture j's accumulated view time for course c.
func (e *Engine) TimeViewed(c, j int) (int, error) {
	if c <= 0 || j < 0 {
		return 0, boomerr.ErrInvalidInput
	}
	ct, err := e.courses.Get(c)
	if err != nil {
		return 0, boomerr.ErrNotFound
	}
	if j >= ct.top {
		return 0, boomerr.ErrInvalidInput
	}
	r, err := ct.lectures.Get(j)
	if err != nil {
		e.log.Warnf("course %d: class %d lookup failed: %v", c, j, err)
		return 0, boomerr.ErrAllocation
	}
	return r.Views, nil
}

// GetIthWatchedClass reports the course and lecture ordinal of the
// i-th most-watched lecture in the system (1-based).
func (e *Engine) GetIthWatchedClass(i int) (int, int, error) {
	if i <= 0 {
		return 0, 0, boomerr.ErrInvalidInput
	}
	if i > e.ranking.Len() {
		return 0, 0, boomerr.ErrNotFound
	}
	rec, ok := e.ranking.Select(i)
	if !ok {
		return 0, 0, boomerr.ErrNotFound
	}
	return rec.Course, rec.Lecture, nil
}

// RankingSize returns the number of lectures currently present in the
// ranking tree (i.e. the number with views > 0).
func (e *Engine) RankingSize() int { return e.ranking.Len() }
