package postgres

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voro-app/feed-service/internal/model"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func newProfileRepo(db *pgxpool.Pool) Profile {
	return &profileRepo{
		db: db,
	}
}

func (r *profileRepo) Create(ctx context.Context, profile model.Profile) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO profiles(id, username, display_name, avatar_url) VALUES($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING",
		profile.ID,
		profile.Username,
		profile.DisplayName,
		profile.AvatarURL,
	)
	return err
}

func (r *profileRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	if err := checkProfileFields(updates); err != nil {
		return err
	}

	query := "UPDATE profiles SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *profileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.QueryRow(
		ctx,
		"SELECT u.id, u.username, u.display_name, u.avatar_url FROM profiles u WHERE u.id = $1",
		id,
	).Scan(
		&profile.ID,
		&profile.Username,
		&profile.DisplayName,
		&profile.AvatarURL,
	); err != nil {
		return nil, err
	}

	return &profile, nil
}

var profileFields = map[string]struct{}{
	"username":     {},
	"display_name": {},
	"avatar_url":   {},
}

func checkProfileFields(updates map[string]interface{}) error {
	for field := range updates {
		if _, ok := profileFields[field]; !ok {
			return model.ErrFieldsNotAllowedToUpdate
		}
	}
	return nil
}
