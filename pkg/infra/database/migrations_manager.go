package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"
)

type Migration struct {
	ID   string
	Name string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

type migrationVersion struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (migrationVersion) TableName() string {
	return "migration_version"
}

var (
	registryMu sync.Mutex
	registry   = make(map[string]Migration)
)

// RegisterMigration is called from init functions of the migrations package.
func RegisterMigration(m Migration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[m.ID]; exists {
		panic(fmt.Sprintf("migration with ID %s already registered", m.ID))
	}
	registry[m.ID] = m
}

// Registered returns every registered migration in ID order.
func Registered() []Migration {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Migration, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type MigrationsManager struct {
	db *gorm.DB
}

func NewMigrationsManager(db *gorm.DB) *MigrationsManager {
	return &MigrationsManager{db: db}
}

// ApplyPending runs every registered migration not yet recorded, in ID order,
// each inside its own transaction.
func (m *MigrationsManager) ApplyPending(ctx context.Context) error {
	db := m.db.WithContext(ctx)
	if err := db.AutoMigrate(&migrationVersion{}); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	var applied []migrationVersion
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}
	done := make(map[string]struct{}, len(applied))
	for _, a := range applied {
		done[a.ID] = struct{}{}
	}

	for _, mig := range Registered() {
		if _, ok := done[mig.ID]; ok {
			continue
		}
		if mig.Up == nil {
			return fmt.Errorf("migration %s has no Up function", mig.ID)
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&migrationVersion{ID: mig.ID, Name: mig.Name}).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s (%s): %w", mig.ID, mig.Name, err)
		}
	}
	return nil
}
