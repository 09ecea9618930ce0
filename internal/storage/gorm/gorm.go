// Package gormstorage implements the storage.Backend interface on top of any
// GORM dialector. The SQLite and Postgres backends wrap it via composition —
// everything engine-specific (connection setup, pragmas, extensions) stays in
// those packages; document persistence lives here.
package gormstorage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/logging"
	"github.com/equidrill/drillbook/internal/model"
	"github.com/equidrill/drillbook/internal/model/convert"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// Backend implements storage.Backend using GORM.
type Backend struct {
	deps Dependencies
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init runs schema migration on the injected DB.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("no DB injected")
	}

	b.deps.LogManager.Logger().Info("migrating schema")
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// Close closes the underlying SQL connection.
func (b *Backend) Close() error {
	if b.deps.DB == nil {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// SaveDrill upserts the drill by its document ID. The whole document is
// replaced in one transaction: a drill's frames and horses are always written
// as a set, never patched row by row.
func (b *Backend) SaveDrill(d *drill.Drill) error {
	if d == nil {
		return fmt.Errorf("nil drill")
	}

	rec := convert.DrillToRecord(*d)

	return b.deps.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteDrillRows(tx, d.ID); err != nil {
			return err
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to insert drill: %w", err)
		}
		return nil
	})
}

// LoadDrill fetches a drill with all frames and horses by document ID.
func (b *Backend) LoadDrill(id string) (*drill.Drill, error) {
	var rec model.DrillRecord
	err := b.deps.DB.
		Preload("Frames.Horses").
		Where("drill_id = ?", id).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, drill.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load drill: %w", err)
	}

	d, err := convert.RecordToDrill(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode drill %s: %w", id, err)
	}
	return &d, nil
}

// ListDrills returns a summary row per saved drill, newest first.
func (b *Backend) ListDrills() ([]drill.Summary, error) {
	var recs []model.DrillRecord
	err := b.deps.DB.
		Preload("Frames").
		Order("updated_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list drills: %w", err)
	}

	summaries := make([]drill.Summary, 0, len(recs))
	for _, rec := range recs {
		total := 0.0
		for _, fr := range rec.Frames {
			total += fr.Duration
		}
		summaries = append(summaries, drill.Summary{
			ID:        rec.DrillID,
			Name:      rec.Name,
			Frames:    len(rec.Frames),
			Duration:  total,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	return summaries, nil
}

// DeleteDrill removes a drill and its frames and horses.
func (b *Backend) DeleteDrill(id string) error {
	return b.deps.DB.Transaction(func(tx *gorm.DB) error {
		return deleteDrillRows(tx, id)
	})
}

// deleteDrillRows hard-deletes the drill row and its children. Deletes are
// explicit rather than relying on DB-level cascades so SQLite works without
// foreign_keys pragma support.
func deleteDrillRows(tx *gorm.DB, drillID string) error {
	var rec model.DrillRecord
	err := tx.Where("drill_id = ?", drillID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find drill %s: %w", drillID, err)
	}

	var frameIDs []uint
	if err := tx.Model(&model.FrameRecord{}).
		Where("drill_record_id = ?", rec.ID).
		Pluck("id", &frameIDs).Error; err != nil {
		return fmt.Errorf("failed to collect frame ids: %w", err)
	}

	if len(frameIDs) > 0 {
		if err := tx.Unscoped().
			Where("frame_record_id IN ?", frameIDs).
			Delete(&model.HorseRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete horses: %w", err)
		}
	}
	if err := tx.Unscoped().
		Where("drill_record_id = ?", rec.ID).
		Delete(&model.FrameRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete frames: %w", err)
	}
	if err := tx.Unscoped().Delete(&rec).Error; err != nil {
		return fmt.Errorf("failed to delete drill: %w", err)
	}
	return nil
}
