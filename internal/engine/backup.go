package engine

import (
	"github.com/legatoproject/datahub/internal/resource"
	"github.com/legatoproject/datahub/internal/tree"
	"github.com/legatoproject/datahub/pkg/logger"
)

// scheduleBackup persists ob's buffer no more often than its
// configured BackupPeriod after each acceptance (spec §4.4).
func (h *Hub) scheduleBackup(e *tree.Entry, ob *resource.ObservationBody, now float64) {
	if h.backup == nil {
		return
	}
	if ob.Buffer.Capacity() == 0 || ob.BackupPeriod <= 0 {
		return
	}
	if ob.LastBackup != 0 && now-ob.LastBackup < ob.BackupPeriod {
		return
	}
	path, err := h.root.RelativePath(e)
	if err != nil {
		return
	}
	path = "/" + path
	if err := h.backup.Save(path, ob.Buffer.Snapshot()); err == nil {
		ob.LastBackup = now
	} else if h.log != nil {
		h.log.Warn("observation backup failed", logger.String("path", path), logger.Error(err))
	}
}
