package repository

import (
	"context"

	"gorm.io/gorm"

	"medivault-server/internal/models"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "creating user")
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "finding user")
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "finding user by email")
	}
	return &u, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := count(ctx, r.db, &models.User{}, "checking email", "email = ?", email)
	return n > 0, err
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, translate(err, "listing users")
	}
	return users, nil
}

func (r *userRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("name ASC, id ASC").Find(&users).Error
	if err != nil {
		return nil, translate(err, "listing users by role")
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error, "updating user")
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error, "deleting user")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, &models.User{}, "counting users", "")
}

func (r *userRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return count(ctx, r.db, &models.User{}, "counting users by role", "role = ?", role)
}
