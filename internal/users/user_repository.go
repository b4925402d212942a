package users

import (
	"fmt"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, passwordHash string) error
	GetUser(username string) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(username string, changes *models.UserChanges) error
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistUser(req models.CreateUserRequest, passwordHash string) error {
	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"username":      req.Username,
			"password_hash": passwordHash,
			"display_name":  req.DisplayName,
			"role":          req.Role,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("username already taken", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert user record: %w", err)
	}

	return nil
}

func (r *userRepositoryImpl) GetUser(username string) (*models.User, error) {
	var user models.User

	query := r.repository.GoquDBWrapper.
		Select("username", "password_hash", "display_name", "role").
		From("users").
		Where(goqu.Ex{"username": username})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("unable to select user %s: %w", username, err)
	}
	if !found {
		return nil, fmt.Errorf("user %s not found", username)
	}

	return &user, nil
}

func (r *userRepositoryImpl) GetUsers() ([]models.User, error) {
	var userList []models.User

	query := r.repository.GoquDBWrapper.
		Select("username", "password_hash", "display_name", "role").
		From("users").
		Order(goqu.I("username").Asc())

	if err := query.Executor().ScanStructs(&userList); err != nil {
		return nil, fmt.Errorf("unable to select users: %w", err)
	}

	return userList, nil
}

func (r *userRepositoryImpl) UpdateUser(username string, changes *models.UserChanges) error {
	updates := goqu.Record{}
	if changes.PasswordHash != nil {
		updates["password_hash"] = *changes.PasswordHash
	}
	if changes.DisplayName != nil {
		updates["display_name"] = *changes.DisplayName
	}
	if changes.Role != nil {
		updates["role"] = *changes.Role
	}
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := r.repository.GoquDBWrapper.
		Update("users").
		Set(updates).
		Where(goqu.Ex{"username": username})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s not found", username)
	}

	return nil
}
