package data

import (
	"context"
	"database/sql"

	"github.com/target/doctrack-api/internal/data/database"
	"github.com/target/doctrack-api/internal/domain/model"
	apperrors "github.com/target/doctrack-api/internal/errors"
)

// UserRepo provides database operations for users.
type UserRepo struct {
	sqlRepo
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB, dialect database.Dialect) *UserRepo {
	return &UserRepo{sqlRepo{DB: db, dialect: dialect}}
}

// GetByEmail returns the user with the given email. Email uniqueness is not enforced by the
// schema; when several rows share an address the lowest id wins.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	rows, err := r.query(ctx, database.NewListQueryOptions("user",
		database.WithColumns("id", "name", "email", "password", "level"),
		database.WithCondition(database.WhereCond("email", database.Equal, email)),
		database.WithOrderBy("ASC", "id"),
		database.WithLimit(1),
	))
	if err != nil {
		return nil, dbError("get user by email", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, dbError("get user by email", err)
		}
		return nil, apperrors.NotFound("user not found")
	}

	// Columns are nullable in externally provisioned schemas; NULL reads as the zero value.
	var (
		u                    model.User
		name, mail, password sql.NullString
		level                sql.NullInt64
	)
	if err := rows.Scan(&u.ID, &name, &mail, &password, &level); err != nil {
		return nil, dbError("scan user", err)
	}
	u.Name = name.String
	u.Email = mail.String
	u.Password = password.String
	u.Level = int(level.Int64)
	return &u, nil
}
