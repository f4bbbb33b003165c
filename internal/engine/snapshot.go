package engine

import (
	"encoding/json"
	"io"

	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/tree"
)

// Format selects the wire encoding of a snapshot or delta (spec
// §4.7). Octave and Custom are reserved for facades this codebase
// does not implement; Snapshot only renders JSON itself, but keeps
// the enum so that it can reject unsupported formats with
// BadParameter instead of silently defaulting.
type Format int

const (
	FormatJSON Format = iota
	FormatOctave
	FormatCustom
)

// BeginningOfTime is the "since" sentinel meaning "full snapshot"
// (spec §4.7).
const BeginningOfTime float64 = 0

// SnapshotFlags controls deletion-tombstone behavior during a scan.
type SnapshotFlags struct {
	FlushDeletionsAfter bool
}

// Node is the encoded form of one tree entry in a snapshot or delta.
type Node struct {
	Path     string          `json:"path"`
	Kind     string          `json:"kind"`
	Deleted  bool            `json:"deleted,omitempty"`
	Value    *json.RawMessage `json:"value,omitempty"`
	Children []*Node         `json:"children,omitempty"`
}

// EnableDeletionTracking turns tombstone retention on or off.
// Disabling it flushes every currently accumulated tombstone (spec
// §4.7).
func (h *Hub) EnableDeletionTracking(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deletionTracking = enabled
	if !enabled {
		h.flushAllTombstones(h.root)
	}
}

func (h *Hub) flushAllTombstones(e *tree.Entry) {
	for _, c := range e.Children(true) {
		if c.Deleted() {
			c.FlushTombstone()
			continue
		}
		h.flushAllTombstones(c)
	}
}

// Snapshot streams an encoded view of the subtree rooted at rootPath
// to w and returns once the whole view is written (spec §4.7). An
// entry is included if it or any descendant is relevant: new since
// the last scan, modified after since, or a tombstone (when deletion
// tracking is enabled). format is only honored as FormatJSON; any
// other format returns BadParameter before anything is written.
func (h *Hub) Snapshot(rootPath string, since float64, flags SnapshotFlags, format Format, w io.Writer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if format != FormatJSON {
		return errors.ErrBadParameter
	}

	root, err := h.root.Find(rootPath, true)
	if err != nil {
		return err
	}

	node, relevant := h.buildSnapshotNode(root, since, "")
	if !relevant {
		node = &Node{Path: "", Kind: root.Kind().String()}
	}

	enc := json.NewEncoder(w)
	if encErr := enc.Encode(node); encErr != nil {
		return encErr
	}

	h.clearScanFlags(root)
	if flags.FlushDeletionsAfter {
		h.flushAllTombstones(root)
	}
	return nil
}

// buildSnapshotNode recursively builds the encoded node for e,
// returning (node, relevant). A node is only attached to its parent's
// Children if it or a descendant is relevant.
func (h *Hub) buildSnapshotNode(e *tree.Entry, since float64, path string) (*Node, bool) {
	relevant := e.IsNew() || e.LastModified() > since || (e.Deleted() && h.deletionTracking)

	n := &Node{Path: path, Kind: e.Kind().String(), Deleted: e.Deleted()}

	if base := baseOf(e.Body()); base != nil {
		if cur, ok := base.EffectiveValue(); ok {
			raw := json.RawMessage(cur.JSONForm())
			n.Value = &raw
		}
	}

	anyChildRelevant := false
	for _, c := range e.Children(true) {
		childPath := c.Name()
		if path != "" {
			childPath = path + "/" + c.Name()
		}
		childNode, childRelevant := h.buildSnapshotNode(c, since, childPath)
		if childRelevant {
			n.Children = append(n.Children, childNode)
			anyChildRelevant = true
		}
	}

	return n, relevant || anyChildRelevant
}

func (h *Hub) clearScanFlags(e *tree.Entry) {
	e.ClearScanFlags()
	for _, c := range e.Children(true) {
		h.clearScanFlags(c)
	}
}
