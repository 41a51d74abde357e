// Package preset persists named sets of sink properties.
package preset

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"ipusink/video/blitter"
	"ipusink/video/sink"
)

var (
	ErrNotFound    = errors.New("preset not found")
	ErrInvalidName = errors.New("invalid preset name")
)

// Preset is the stored form of sink.Properties. Modes are stored by name so
// rows stay readable and survive enum reordering.
type Preset struct {
	Name            string `gorm:"primaryKey;size:64"`
	OutputRotation  string `gorm:"size:32;not null"`
	DeinterlaceMode string `gorm:"size:32;not null"`
	UpdatedAt       time.Time
}

func (p *Preset) Properties() (sink.Properties, error) {
	r, err := blitter.ParseRotationMode(p.OutputRotation)
	if err != nil {
		return sink.Properties{}, err
	}
	d, err := blitter.ParseDeinterlaceMode(p.DeinterlaceMode)
	if err != nil {
		return sink.Properties{}, err
	}
	return sink.Properties{OutputRotation: r, DeinterlaceMode: d}, nil
}

type Store struct {
	db *gorm.DB
}

// Open connects to the database behind dialector and migrates the schema.
func Open(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Preset{}); err != nil {
		return nil, fmt.Errorf("migrating presets: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMySQL opens a Store on the MySQL database at dsn.
func OpenMySQL(dsn string) (*Store, error) {
	return Open(mysql.Open(dsn))
}

// Save stores p under name, replacing any preset of that name.
func (s *Store) Save(name string, p sink.Properties) error {
	if name == "" || len(name) > 64 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	row := Preset{
		Name:            name,
		OutputRotation:  p.OutputRotation.String(),
		DeinterlaceMode: p.DeinterlaceMode.String(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"output_rotation", "deinterlace_mode", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return err
	}
	log.Infof("Saved preset %q: %v/%v", name, p.OutputRotation, p.DeinterlaceMode)
	return nil
}

func (s *Store) Load(name string) (sink.Properties, error) {
	var row Preset
	err := s.db.Where("name = ?", name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sink.Properties{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return sink.Properties{}, err
	}
	return row.Properties()
}

// List returns all presets ordered by name.
func (s *Store) List() ([]Preset, error) {
	var rows []Preset
	if err := s.db.Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) Delete(name string) error {
	res := s.db.Where("name = ?", name).Delete(&Preset{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
