package database

import (
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo() *UserRepo {
	return &UserRepo{db: DB}
}

func (r *UserRepo) Create(user *User) error {
	return r.db.Create(user).Error
}

func (r *UserRepo) Save(user *User) error {
	return r.db.Save(user).Error
}

func (r *UserRepo) FindByUsername(username string) (*User, error) {
	var user User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByID(id string) (*User, error) {
	var user User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) UpdatePassword(id string, hash string) error {
	return r.db.Model(&User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *UserRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&User{}).Count(&count).Error
	return count, err
}

func (r *UserRepo) List() ([]User, error) {
	var users []User
	err := r.db.Order("created_at asc").Find(&users).Error
	return users, err
}

func (r *UserRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&User{}).Error
}
