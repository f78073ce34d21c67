package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileExists        = errors.New("profile already exists")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrLocationNotFound     = errors.New("location not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrRequestNotFound      = errors.New("request not found")
	ErrRequestResolved      = errors.New("request already resolved")
	ErrInvalidStatus        = errors.New("invalid request status")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
