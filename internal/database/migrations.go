package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS organizations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// id mirrors the auth service user id, so there is no default.
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id UUID PRIMARY KEY,
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		email VARCHAR(255) NOT NULL,
		display_name VARCHAR(255),
		role VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS locations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		manager_id UUID REFERENCES user_profiles(id) ON DELETE SET NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		location_id UUID REFERENCES locations(id) ON DELETE SET NULL,
		name VARCHAR(255) NOT NULL,
		sku VARCHAR(100),
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		min_quantity INTEGER NOT NULL DEFAULT 0 CHECK (min_quantity >= 0),
		unit VARCHAR(50) NOT NULL DEFAULT 'pcs',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS item_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		item_id UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		requested_by UUID NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		note TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		resolved_by UUID REFERENCES user_profiles(id) ON DELETE SET NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_profiles_organization_id ON user_profiles(organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_profiles_email ON user_profiles(email)`,
	`CREATE INDEX IF NOT EXISTS idx_locations_organization_id ON locations(organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_locations_manager_id ON locations(manager_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_organization_id ON items(organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_location_id ON items(location_id)`,
	`CREATE INDEX IF NOT EXISTS idx_item_requests_organization_id ON item_requests(organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_item_requests_item_id ON item_requests(item_id)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_items_org_sku ON items(organization_id, sku) WHERE sku IS NOT NULL`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
