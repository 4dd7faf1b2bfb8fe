package postgres

import (
	"context"
	"errors"

	"github.com/mobmart/storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, email, password, firstname, lastname, phonenumber, dateofbirth)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.PhoneNumber, u.DateOfBirth).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	query := `
		SELECT id, username, email, password, firstname, lastname, phonenumber, dateofbirth, created_at
		FROM users
		WHERE username=$1`
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.PhoneNumber, &u.DateOfBirth, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) AddAddress(ctx context.Context, a *domain.Address) error {
	query := `
		INSERT INTO addresses (user_id, addresstype, addressline1, addressline2, country, state, city, phonenumber)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		a.UserID, a.AddressType, a.AddressLine1, a.AddressLine2,
		a.Country, a.State, a.City, a.PhoneNumber).
		Scan(&a.ID, &a.CreatedAt)
}
