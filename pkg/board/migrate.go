package board

import (
	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/models"
)

const versionKey = "system_version"

// Migrate performs upgrade work between data versions. It normalizes stored
// board data so every message satisfies the one-level nesting shape: reply
// parent ids point at their thread, nil reply slices become empty, and
// replies-of-replies are flattened into their thread. Idempotent and safe to
// run on every startup.
func (r *Repo) Migrate(to string) error {
	var from string
	if _, err := r.store.Load(versionKey, &from); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	logger.Info("migrate_start", "from", from, "to", to)

	var msgs []models.Message
	found, err := r.store.Load(boardKey, &msgs)
	if err != nil {
		return err
	}
	if found {
		changed := false
		for i := range msgs {
			if msgs[i].Replies == nil {
				msgs[i].Replies = []models.Message{}
				changed = true
			}
			flat := make([]models.Message, 0, len(msgs[i].Replies))
			for _, rep := range msgs[i].Replies {
				if rep.ParentID != msgs[i].ID {
					rep.ParentID = msgs[i].ID
					changed = true
				}
				nested := rep.Replies
				if len(nested) > 0 {
					changed = true
				}
				rep.Replies = nil
				flat = append(flat, rep)
				for _, sub := range nested {
					sub.ParentID = msgs[i].ID
					sub.Replies = nil
					flat = append(flat, sub)
				}
			}
			msgs[i].Replies = flat
		}
		if changed {
			if err := r.store.Save(boardKey, msgs); err != nil {
				return err
			}
			logger.Info("migrate_board_normalized", "threads", len(msgs))
		}
	}

	if err := r.store.Save(versionKey, to); err != nil {
		return err
	}
	logger.Info("migrate_done", "version", to)
	return nil
}
