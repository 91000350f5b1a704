package admin

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Settings is the single-row site configuration. Commission rate is a
// percentage applied at order creation; featured categories drive the
// catalog's featured grouping.
type Settings struct {
	SiteTitle          string    `json:"site_title"`
	SiteDescription    string    `json:"site_description"`
	Tagline            string    `json:"tagline"`
	HeroTitle          string    `json:"hero_title"`
	HeroSubtitle       string    `json:"hero_subtitle"`
	CommissionRate     float64   `json:"commission_rate"`
	ContactEmail       string    `json:"contact_email"`
	FeaturedCategories []string  `json:"featured_categories"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultSettings are used until an admin saves the row.
func DefaultSettings() Settings {
	return Settings{
		SiteTitle:      "Leafora",
		CommissionRate: 15,
		FeaturedCategories: []string{
			"Web Development",
			"Logo Design",
			"Digital Marketing",
		},
	}
}

// PGSettingsStore reads and writes the admin_settings singleton. It also
// serves as the marketplace engines' settings source.
type PGSettingsStore struct {
	pool *pgxpool.Pool
}

func NewPGSettingsStore(pool *pgxpool.Pool) *PGSettingsStore {
	return &PGSettingsStore{pool: pool}
}

// Get returns the saved settings, or the defaults when none were saved yet.
func (s *PGSettingsStore) Get(ctx context.Context) (Settings, error) {
	out := DefaultSettings()
	err := s.pool.QueryRow(ctx, `
        SELECT site_title, site_description, tagline, hero_title, hero_subtitle,
               commission_rate, contact_email, featured_categories, updated_at
        FROM admin_settings WHERE id = 1
    `).Scan(&out.SiteTitle, &out.SiteDescription, &out.Tagline, &out.HeroTitle,
		&out.HeroSubtitle, &out.CommissionRate, &out.ContactEmail,
		&out.FeaturedCategories, &out.UpdatedAt)
	if err != nil {
		return DefaultSettings(), nil
	}
	return out, nil
}

// Update upserts the singleton row.
func (s *PGSettingsStore) Update(ctx context.Context, in Settings) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO admin_settings (id, site_title, site_description, tagline, hero_title,
            hero_subtitle, commission_rate, contact_email, featured_categories, updated_at)
        VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
        ON CONFLICT (id) DO UPDATE SET
            site_title = EXCLUDED.site_title,
            site_description = EXCLUDED.site_description,
            tagline = EXCLUDED.tagline,
            hero_title = EXCLUDED.hero_title,
            hero_subtitle = EXCLUDED.hero_subtitle,
            commission_rate = EXCLUDED.commission_rate,
            contact_email = EXCLUDED.contact_email,
            featured_categories = EXCLUDED.featured_categories,
            updated_at = NOW()
    `, in.SiteTitle, in.SiteDescription, in.Tagline, in.HeroTitle, in.HeroSubtitle,
		in.CommissionRate, in.ContactEmail, in.FeaturedCategories)
	return err
}

// CommissionRate implements the marketplace settings source.
func (s *PGSettingsStore) CommissionRate(ctx context.Context) (float64, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return DefaultSettings().CommissionRate, nil
	}
	return settings.CommissionRate, nil
}

// FeaturedCategories implements the marketplace settings source.
func (s *PGSettingsStore) FeaturedCategories(ctx context.Context) ([]string, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return DefaultSettings().FeaturedCategories, nil
	}
	if len(settings.FeaturedCategories) == 0 {
		return DefaultSettings().FeaturedCategories, nil
	}
	return settings.FeaturedCategories, nil
}
