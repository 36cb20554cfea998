package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/domain"
)

type managedRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func (r *managedRepo) InsertManagedVariant(ctx context.Context, m *domain.ManagedVariant) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding managed variant: %w", err)
	}

	query := `
		INSERT INTO managed_variants (
			id, chromosome, position, reference, alternative, build, doc
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		m.ID, m.Chromosome, m.Position, m.Reference, m.Alternative,
		domain.NormalizeBuild(m.Build), doc,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("managed variant %s already exists: %w", m.Key(), domain.ErrConflict)
		}
		return fmt.Errorf("inserting managed variant: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"variant": m.Key(),
		"build":   m.Build,
	}).Info("Managed variant inserted")
	return nil
}

func (r *managedRepo) ManagedVariant(ctx context.Context, chrom string, pos int, ref, alt, build string) (*domain.ManagedVariant, error) {
	query := `
		SELECT doc FROM managed_variants
		WHERE chromosome = $1 AND position = $2 AND reference = $3
		  AND alternative = $4 AND build = $5`
	return fetchDoc[domain.ManagedVariant](ctx, r.db, query,
		chrom, pos, ref, alt, domain.NormalizeBuild(build))
}

func (r *managedRepo) ManagedVariants(ctx context.Context) ([]*domain.ManagedVariant, error) {
	rows, err := r.db.Query(ctx,
		"SELECT doc FROM managed_variants ORDER BY chromosome, position, reference, alternative, build")
	if err != nil {
		return nil, fmt.Errorf("selecting managed variants: %w", err)
	}
	return collectDocs[domain.ManagedVariant](rows)
}

func (r *managedRepo) DeleteManagedVariant(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, "DELETE FROM managed_variants WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting managed variant %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("managed variant %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type instituteRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func (r *instituteRepo) Institute(ctx context.Context, instituteID string) (*domain.Institute, error) {
	return fetchDoc[domain.Institute](ctx, r.db,
		"SELECT doc FROM institutes WHERE id = $1", instituteID)
}

func (r *instituteRepo) Institutes(ctx context.Context) ([]*domain.Institute, error) {
	rows, err := r.db.Query(ctx, "SELECT doc FROM institutes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("selecting institutes: %w", err)
	}
	return collectDocs[domain.Institute](rows)
}

func (r *instituteRepo) UpsertInstitute(ctx context.Context, i *domain.Institute) error {
	doc, err := json.Marshal(i)
	if err != nil {
		return fmt.Errorf("encoding institute: %w", err)
	}
	query := `
		INSERT INTO institutes (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`
	if _, err := r.db.Exec(ctx, query, i.ID, doc); err != nil {
		return fmt.Errorf("upserting institute %s: %w", i.ID, err)
	}
	return nil
}

type userRepo struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

func (r *userRepo) User(ctx context.Context, email string) (*domain.User, error) {
	return fetchDoc[domain.User](ctx, r.db,
		"SELECT doc FROM users WHERE email = $1", email)
}

func (r *userRepo) Users(ctx context.Context, institute string) ([]*domain.User, error) {
	query := `
		SELECT doc FROM users
		WHERE $1 = '' OR $1 = ANY(institutes)
		ORDER BY email`
	rows, err := r.db.Query(ctx, query, institute)
	if err != nil {
		return nil, fmt.Errorf("selecting users: %w", err)
	}
	return collectDocs[domain.User](rows)
}

func (r *userRepo) UpsertUser(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = u.Email
	}
	doc, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	institutes := u.Institutes
	if institutes == nil {
		institutes = []string{}
	}
	query := `
		INSERT INTO users (email, institutes, doc) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			institutes = EXCLUDED.institutes, doc = EXCLUDED.doc`
	if _, err := r.db.Exec(ctx, query, u.Email, institutes, doc); err != nil {
		return fmt.Errorf("upserting user %s: %w", u.Email, err)
	}
	return nil
}

func (r *userRepo) DeleteUser(ctx context.Context, email string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM users WHERE email = $1", email); err != nil {
		return fmt.Errorf("deleting user %s: %w", email, err)
	}
	return nil
}
