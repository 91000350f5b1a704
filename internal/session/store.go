package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chillwithnegi/Leafora/internal/user"
)

// PGProfileWriter persists session-driven profile changes to Postgres.
type PGProfileWriter struct {
	pool *pgxpool.Pool
}

func NewPGProfileWriter(pool *pgxpool.Pool) *PGProfileWriter {
	return &PGProfileWriter{pool: pool}
}

func (w *PGProfileWriter) UpdateProfile(ctx context.Context, p user.Profile) error {
	ct, err := w.pool.Exec(ctx, `
        UPDATE profiles
        SET role = $2, bio = $3, skills = $4, languages = $5,
            profile_pic = $6, current_mode = $7
        WHERE id = $1`,
		p.ID, p.Role, p.Bio, p.Skills, p.Languages, p.ProfilePic, p.CurrentMode)
	if err != nil {
		return fmt.Errorf("update profile %s: %w", p.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", p.ID)
	}
	return nil
}

// LoadProfile fetches a full profile row, used by the handlers to build a
// per-request session context from the token's user id.
func LoadProfile(ctx context.Context, pool *pgxpool.Pool, id string) (user.Profile, error) {
	var p user.Profile
	err := pool.QueryRow(ctx, `
        SELECT id, name, email, role, bio, profile_pic, skills, languages,
               rating, total_reviews, seller_level, is_verified, is_active,
               current_mode, created_at
        FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.Bio, &p.ProfilePic,
		&p.Skills, &p.Languages, &p.Rating, &p.TotalReviews, &p.SellerLevel,
		&p.IsVerified, &p.IsActive, &p.CurrentMode, &p.CreatedAt)
	if err != nil {
		return user.Profile{}, fmt.Errorf("load profile %s: %w", id, err)
	}
	return p, nil
}
