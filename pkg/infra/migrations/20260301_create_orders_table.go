package migrations

import (
	"github.com/devopsinterview/storefront/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260301_create_orders_table",
		Name: "Create orders table",

		Up: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS orders (
					id                  UUID PRIMARY KEY,
					session_id          TEXT UNIQUE,
					ebook_id            UUID NOT NULL,
					customer_email      TEXT,
					amount_total        BIGINT NOT NULL DEFAULT 0,
					currency            TEXT,
					status              TEXT NOT NULL,
					paid_at             TIMESTAMPTZ,
					download_expires_at TIMESTAMPTZ,
					created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_orders_ebook_id ON orders (ebook_id);`).Error
		},

		Down: func(tx *gorm.DB) error {
			return tx.Exec(`DROP TABLE IF EXISTS orders;`).Error
		},
	})
}
