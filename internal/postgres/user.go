package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

func (d *Directory) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := d.db.pool.QueryRow(ctx, `
        SELECT id, email, name, platform_admin, created_at, updated_at
        FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.PlatformAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "user.get", "user", id.String())
	}
	return &u, nil
}

// UpsertUser mirrors an identity from the authentication provider.
func (d *Directory) UpsertUser(ctx context.Context, u *domain.User) error {
	_, err := d.db.pool.Exec(ctx, `
        INSERT INTO users (id, email, name, platform_admin, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
            email = EXCLUDED.email,
            name = EXCLUDED.name,
            platform_admin = EXCLUDED.platform_admin,
            updated_at = EXCLUDED.updated_at`,
		u.ID, u.Email, u.Name, u.PlatformAdmin, u.CreatedAt, u.UpdatedAt)
	return mapError(err, "user.upsert")
}
