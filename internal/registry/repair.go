package registry

import (
	"context"
	"path/filepath"

	"github.com/venvbin/venvbin/internal/manifest"
)

// RebuildRecord writes a record for the virtualenv at venvPath from what is
// installed in it and published for it. An existing record is overwritten
// only when it could be read, so a corrupt record stays an error.
func (r *Repository) RebuildRecord(ctx context.Context, venvPath string) (*manifest.PackageRecord, error) {
	record, err := r.store.Load(ctx, venvPath, filepath.Base(venvPath))
	if err != nil {
		return nil, err
	}
	return r.store.Save(ctx, venvPath, record.Name, record.Scripts)
}
