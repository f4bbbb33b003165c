// Package tree implements the resource tree (spec §4.2): the
// ownership hierarchy of named entries, path resolution, promotion
// rules between entry kinds, and tombstone lifecycle.
package tree

import (
	"strings"

	"github.com/legatoproject/datahub/internal/errors"
)

// Kind identifies an Entry's role in the tree.
type Kind int

const (
	Namespace Kind = iota
	Input
	Output
	Observation
	Placeholder
)

func (k Kind) String() string {
	switch k {
	case Namespace:
		return "namespace"
	case Input:
		return "input"
	case Output:
		return "output"
	case Observation:
		return "observation"
	case Placeholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Body is the variant-specific payload an Entry carries when it is
// not a bare Namespace. Implementations live in internal/resource;
// tree only needs the handful of operations it must drive during
// promotion and deletion.
type Body interface {
	// Kind reports which tree Kind this body implements.
	Kind() Kind
	// MoveSettingsFrom migrates admin settings from an old body (e.g.
	// a Placeholder being promoted into an Input) into this one,
	// discarding whatever does not apply to the new kind.
	MoveSettingsFrom(old Body)
	// HasAdminSettings reports whether this body carries settings
	// that must survive as a Placeholder if its owning I/O is
	// deleted.
	HasAdminSettings() bool
}

// Limits bounds path and segment length (spec §6 "Path rules").
type Limits struct {
	MaxSegmentLength int
	MaxPathLength    int
}

// Entry is a node in the resource tree.
type Entry struct {
	name     string
	parent   *Entry
	children []*Entry
	kind     Kind
	body     Body // nil for Namespace
	deleted  bool

	// Snapshot/delta bookkeeping (spec §4.7).
	isNew                bool
	lastModified         float64
	jsonExampleChanged   bool
}

// NewRoot creates a root Namespace entry with no parent.
func NewRoot() *Entry {
	return &Entry{kind: Namespace, isNew: true}
}

// Name returns the entry's own path segment.
func (e *Entry) Name() string { return e.name }

// Parent returns the entry's parent, or nil for the root.
func (e *Entry) Parent() *Entry { return e.parent }

// Kind returns the entry's current kind.
func (e *Entry) Kind() Kind { return e.kind }

// Body returns the entry's resource body, or nil for a Namespace.
func (e *Entry) Body() Body { return e.body }

// Deleted reports whether this entry is a tombstone.
func (e *Entry) Deleted() bool { return e.deleted }

// IsNew reports whether this entry has not yet been observed by a
// snapshot scan.
func (e *Entry) IsNew() bool { return e.isNew }

// LastModified returns the timestamp of this entry's last value
// change, for snapshot relevance testing (spec §4.7).
func (e *Entry) LastModified() float64 { return e.lastModified }

// Touch records that e changed at ts, for snapshot relevance.
func (e *Entry) Touch(ts float64) {
	e.lastModified = ts
}

// MarkJSONExampleChanged flags e as having a changed JSON example
// since the last snapshot scan.
func (e *Entry) MarkJSONExampleChanged() { e.jsonExampleChanged = true }

// JSONExampleChanged reports the json-example-changed flag without
// clearing it; ClearScanFlags clears it.
func (e *Entry) JSONExampleChanged() bool { return e.jsonExampleChanged }

// ClearScanFlags clears the "new" and "json-example-changed" flags, as
// part of a successful snapshot scan (spec §4.7).
func (e *Entry) ClearScanFlags() {
	e.isNew = false
	e.jsonExampleChanged = false
}

// Children returns e's live (non-tombstoned) children in insertion
// order. Pass includeTombstones to also include deleted entries.
func (e *Entry) Children(includeTombstones bool) []*Entry {
	out := make([]*Entry, 0, len(e.children))
	for _, c := range e.children {
		if c.deleted && !includeTombstones {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FindChild looks up an immediate child by name.
func (e *Entry) FindChild(name string, includeTombstones bool) *Entry {
	for _, c := range e.children {
		if c.name == name && (includeTombstones || !c.deleted) {
			return c
		}
	}
	return nil
}

// Siblings returns e's siblings (children of e's parent excluding e).
func (e *Entry) Siblings(includeTombstones bool) []*Entry {
	if e.parent == nil {
		return nil
	}
	out := make([]*Entry, 0, len(e.parent.children))
	for _, c := range e.parent.children {
		if c == e {
			continue
		}
		if c.deleted && !includeTombstones {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ValidateSegment checks a single path segment against the forbidden
// character set and length limit (spec §6).
func ValidateSegment(seg string, limits Limits) error {
	if seg == "" {
		return errors.ErrBadParameter
	}
	if limits.MaxSegmentLength > 0 && len(seg) > limits.MaxSegmentLength {
		return errors.ErrBadParameter
	}
	if strings.ContainsAny(seg, ".[]") {
		return errors.ErrBadParameter
	}
	return nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Find resolves path relative to base, returning NotFound if any
// segment along the way is missing. By default tombstoned entries are
// invisible; pass includeTombstones to see them.
func (base *Entry) Find(path string, includeTombstones bool) (*Entry, error) {
	segs := splitPath(path)
	cur := base
	for _, seg := range segs {
		cur = cur.FindChild(seg, includeTombstones)
		if cur == nil {
			return nil, errors.ErrNotFound
		}
	}
	return cur, nil
}

// Get resolves path relative to base, creating intermediate Namespace
// entries for any missing segment (spec §4.2's "get" operation). The
// final segment, if missing, is also created as a Namespace; callers
// that want a specific resource kind promote it afterward via
// Promote.
func (base *Entry) Get(path string, limits Limits) (*Entry, error) {
	if limits.MaxPathLength > 0 && len(path) > limits.MaxPathLength {
		return nil, errors.ErrBadParameter
	}
	segs := splitPath(path)
	cur := base
	for _, seg := range segs {
		if err := ValidateSegment(seg, limits); err != nil {
			return nil, err
		}
		child := cur.FindChild(seg, true)
		if child == nil {
			child = &Entry{name: seg, parent: cur, kind: Namespace, isNew: true}
			cur.children = append(cur.children, child)
		} else if child.deleted {
			// Resurrect the tombstone as a fresh namespace.
			child.deleted = false
			child.kind = Namespace
			child.body = nil
			child.isNew = true
		}
		cur = child
	}
	return cur, nil
}

// RelativePath computes e's path relative to base. Returns
// BadParameter if e is not a descendant of base; never partially
// commits a path on error (spec §9 Open Questions: the donor's
// overflow-vs-NotFound inconsistency is resolved by never returning a
// partial result).
func (base *Entry) RelativePath(e *Entry) (string, error) {
	var segs []string
	cur := e
	for cur != nil && cur != base {
		segs = append(segs, cur.name)
		cur = cur.parent
	}
	if cur != base {
		return "", errors.ErrBadParameter
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, "/"), nil
}

// Promote changes e's kind and body, applying the replacement rules
// of spec §4.2. newBody must be non-nil for every kind except
// Namespace.
func (e *Entry) Promote(kind Kind, newBody Body) error {
	switch {
	case e.kind == Namespace:
		// Namespace -> anything: always allowed.
	case e.kind == Placeholder && (kind == Input || kind == Output || kind == Observation):
		newBody.MoveSettingsFrom(e.body)
	case e.kind == Input && kind == Input:
		// Idempotent recreation is validated by the caller (same
		// type+units check lives in internal/resource, which knows
		// the body's concrete type); tree only allows the re-promote.
	case e.kind == kind:
		// Observation -> Observation (reconfigure) or Output ->
		// Output are handled by the caller via direct body mutation,
		// not via Promote; reaching here for same-kind non-Input is
		// a caller error.
		return errors.ErrDuplicate
	default:
		return errors.ErrDuplicate
	}
	e.kind = kind
	e.body = newBody
	e.deleted = false
	return nil
}

// DeleteIO removes an Input/Output entry. If its body carries admin
// settings (e.g. an installed source link or default value put there
// by an admin), the entry downgrades to a Placeholder retaining those
// settings; otherwise it is removed outright (spec §4.2).
func (e *Entry) DeleteIO(placeholderBody Body) {
	if e.body != nil && e.body.HasAdminSettings() {
		placeholderBody.MoveSettingsFrom(e.body)
		e.kind = Placeholder
		e.body = placeholderBody
		return
	}
	e.removeFromParent()
}

// DeleteObservation tombstones an Observation entry immediately (spec
// §4.2): it is retained in the tree as a deleted marker until the
// next snapshot flush.
func (e *Entry) DeleteObservation() {
	e.kind = Namespace
	e.body = nil
	e.deleted = true
	e.isNew = false
}

// removeFromParent unlinks e from its parent's child list entirely,
// used when an entry has no settings worth tombstoning.
func (e *Entry) removeFromParent() {
	if e.parent == nil {
		return
	}
	siblings := e.parent.children
	for i, c := range siblings {
		if c == e {
			e.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
}

// FlushTombstone permanently removes a tombstoned entry from its
// parent's child list, called once a snapshot with flush-deletions
// has reported it (spec §4.7).
func (e *Entry) FlushTombstone() {
	if !e.deleted {
		return
	}
	e.removeFromParent()
}

// Walk visits e and every descendant, depth-first, pre-order; when
// visit returns false, that entry's descendants are skipped. Used by
// cmd/hubd's health check to count tree entries.
func (e *Entry) Walk(visit func(*Entry) bool) {
	if !visit(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(visit)
	}
}
