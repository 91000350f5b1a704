package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Conn *pgxpool.Pool

// Init connects to Postgres
func Init() {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	log.Println("Connected to Postgres successfully")

	// Ensure all marketplace tables exist with the columns the handlers use
	ensureProfilesTable()
	ensureServicesTable()
	ensureOrdersTable()
	ensureMessagesTable()
	ensureReviewsTable()
	ensureAdminSettingsTable()
}

// ensureProfilesTable creates the profiles table and keeps its role/mode
// constraints aligned with the session handlers
func ensureProfilesTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS profiles (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'buyer',
            bio TEXT DEFAULT '',
            profile_pic TEXT DEFAULT '',
            skills TEXT[] DEFAULT '{}',
            languages TEXT[] DEFAULT '{}',
            rating DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_reviews INTEGER NOT NULL DEFAULT 0,
            seller_level TEXT NOT NULL DEFAULT 'new_seller',
            is_verified BOOLEAN NOT NULL DEFAULT FALSE,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            current_mode TEXT NOT NULL DEFAULT 'buyer',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		log.Printf("failed to create profiles table: %v", err)
		return
	}

	// Keep the role constraint in sync with the roles the middleware checks
	_, _ = Conn.Exec(ctx, `ALTER TABLE profiles DROP CONSTRAINT IF EXISTS profiles_role_check`)
	_, err = Conn.Exec(ctx, `
        ALTER TABLE profiles
        ADD CONSTRAINT profiles_role_check
        CHECK (role IN ('buyer', 'seller', 'admin'))`)
	if err != nil {
		log.Printf("failed to update profiles role constraint: %v", err)
	}

	_, _ = Conn.Exec(ctx, `ALTER TABLE profiles DROP CONSTRAINT IF EXISTS profiles_mode_check`)
	_, err = Conn.Exec(ctx, `
        ALTER TABLE profiles
        ADD CONSTRAINT profiles_mode_check
        CHECK (current_mode IN ('buyer', 'seller'))`)
	if err != nil {
		log.Printf("failed to update profiles mode constraint: %v", err)
	}
}

// ensureServicesTable creates the services table. Pricing tiers live in a
// single JSONB column scanned by the marketplace store.
func ensureServicesTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS services (
            id UUID PRIMARY KEY,
            seller_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            description TEXT DEFAULT '',
            category TEXT NOT NULL,
            sub_category TEXT DEFAULT '',
            tags TEXT[] DEFAULT '{}',
            images TEXT[] DEFAULT '{}',
            pricing JSONB NOT NULL,
            status TEXT NOT NULL DEFAULT 'active',
            rating DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_orders INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_services_seller ON services(seller_id);
        CREATE INDEX IF NOT EXISTS idx_services_status ON services(status);
    `)
	if err != nil {
		log.Printf("failed to create services table: %v", err)
		return
	}

	_, _ = Conn.Exec(ctx, `ALTER TABLE services DROP CONSTRAINT IF EXISTS services_status_check`)
	_, err = Conn.Exec(ctx, `
        ALTER TABLE services
        ADD CONSTRAINT services_status_check
        CHECK (status IN ('draft', 'active', 'paused', 'rejected'))`)
	if err != nil {
		log.Printf("failed to update services status constraint: %v", err)
	}
}

// ensureOrdersTable creates the orders table and keeps the status constraint
// aligned with the lifecycle engine
func ensureOrdersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            service_id UUID NOT NULL REFERENCES services(id),
            buyer_id UUID NOT NULL REFERENCES profiles(id),
            seller_id UUID NOT NULL REFERENCES profiles(id),
            package TEXT NOT NULL,
            amount DOUBLE PRECISION NOT NULL,
            commission_amount DOUBLE PRECISION NOT NULL,
            requirements TEXT DEFAULT '',
            revision_count INTEGER NOT NULL DEFAULT 0,
            max_revisions INTEGER NOT NULL DEFAULT 0,
            delivery_date TIMESTAMP WITH TIME ZONE NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            completed_at TIMESTAMP WITH TIME ZONE NULL
        );
        CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id);
        CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id);
        CREATE INDEX IF NOT EXISTS idx_orders_service ON orders(service_id);
    `)
	if err != nil {
		log.Printf("failed to create orders table: %v", err)
		return
	}

	_, _ = Conn.Exec(ctx, `ALTER TABLE orders DROP CONSTRAINT IF EXISTS orders_status_check`)
	_, err = Conn.Exec(ctx, `
        ALTER TABLE orders
        ADD CONSTRAINT orders_status_check
        CHECK (status IN (
            'pending', 'in_progress', 'delivered', 'completed', 'cancelled', 'disputed'
        ))`)
	if err != nil {
		log.Printf("failed to update orders status constraint: %v", err)
	}

	_, _ = Conn.Exec(ctx, `ALTER TABLE orders DROP CONSTRAINT IF EXISTS orders_package_check`)
	_, err = Conn.Exec(ctx, `
        ALTER TABLE orders
        ADD CONSTRAINT orders_package_check
        CHECK (package IN ('basic', 'standard', 'premium'))`)
	if err != nil {
		log.Printf("failed to update orders package constraint: %v", err)
	}
}

// ensureMessagesTable creates the messages table. IDs are ULIDs so lexical
// order matches send order within a conversation.
func ensureMessagesTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS messages (
            id TEXT PRIMARY KEY,
            sender_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
            receiver_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
            order_id UUID NULL REFERENCES orders(id) ON DELETE SET NULL,
            content TEXT NOT NULL,
            read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id, created_at);
    `)
	if err != nil {
		log.Printf("failed to create messages table: %v", err)
	}
}

// ensureReviewsTable creates the reviews table with one review per order
func ensureReviewsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS reviews (
            id UUID PRIMARY KEY,
            order_id UUID NOT NULL UNIQUE REFERENCES orders(id) ON DELETE CASCADE,
            service_id UUID NOT NULL REFERENCES services(id) ON DELETE CASCADE,
            buyer_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
            seller_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
            rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT DEFAULT '',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_reviews_seller ON reviews(seller_id);
        CREATE INDEX IF NOT EXISTS idx_reviews_service ON reviews(service_id);
    `)
	if err != nil {
		log.Printf("failed to create reviews table: %v", err)
	}
}

// ensureAdminSettingsTable creates the single-row settings table used for
// commission and site configuration
func ensureAdminSettingsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS admin_settings (
            id INTEGER PRIMARY KEY CHECK (id = 1),
            site_title TEXT NOT NULL DEFAULT 'Leafora',
            site_description TEXT NOT NULL DEFAULT '',
            tagline TEXT NOT NULL DEFAULT '',
            hero_title TEXT NOT NULL DEFAULT '',
            hero_subtitle TEXT NOT NULL DEFAULT '',
            commission_rate DOUBLE PRECISION NOT NULL DEFAULT 15,
            contact_email TEXT NOT NULL DEFAULT '',
            featured_categories TEXT[] DEFAULT '{}',
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		log.Printf("failed to create admin_settings table: %v", err)
	}
}
