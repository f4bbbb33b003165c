package engine

import (
	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/tree"
)

var errNotObservation = errors.ErrBadParameter

// SetSource installs destPath's source link to point at srcPath (spec
// §4.5). Rejects with Duplicate if the assignment would create a
// cycle in the routing graph.
func (h *Hub) SetSource(destPath, srcPath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.setSourceLocked(destPath, srcPath)
}

func (h *Hub) setSourceLocked(destPath, srcPath string) error {
	dest, err := h.root.Find(destPath, false)
	if err != nil {
		return err
	}
	src, err := h.root.Find(srcPath, false)
	if err != nil {
		return err
	}
	if dest == src {
		return errors.ErrDuplicate
	}
	if reaches(src, dest) {
		return errors.ErrDuplicate
	}

	destBase := baseOf(dest.Body())
	if destBase == nil {
		return errors.ErrBadParameter
	}

	if destBase.Source != nil {
		unlinkDestination(destBase.Source, dest)
	}
	destBase.Source = src

	srcBase := baseOf(src.Body())
	if srcBase != nil {
		srcBase.Destinations = append(srcBase.Destinations, dest)
	}
	return nil
}

// reaches reports whether walking source links forward from start
// ever arrives at target, used to reject a source assignment that
// would close a cycle (spec §4.5: "if the graph walk from the
// proposed source back through source links ever reaches the
// destination").
func reaches(start, target *tree.Entry) bool {
	seen := map[*tree.Entry]bool{}
	cur := start
	for cur != nil {
		if cur == target {
			return true
		}
		if seen[cur] {
			return false // already-broken cycle elsewhere; don't loop forever
		}
		seen[cur] = true
		base := baseOf(cur.Body())
		if base == nil {
			return false
		}
		cur = base.Source
	}
	return false
}

func unlinkDestination(src, dest *tree.Entry) {
	base := baseOf(src.Body())
	if base == nil {
		return
	}
	out := base.Destinations[:0]
	for _, d := range base.Destinations {
		if d != dest {
			out = append(out, d)
		}
	}
	base.Destinations = out
}
