package database

import (
	"gorm.io/gorm"
)

type RecorderRepo struct {
	db *gorm.DB
}

func NewRecorderRepo() *RecorderRepo {
	return &RecorderRepo{db: DB}
}

func (r *RecorderRepo) List() ([]Recorder, error) {
	var recs []Recorder
	err := r.db.Order("created_at asc").Find(&recs).Error
	return recs, err
}

func (r *RecorderRepo) FindByID(id string) (*Recorder, error) {
	var rec Recorder
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecorderRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&Recorder{}).Count(&count).Error
	return count, err
}

func (r *RecorderRepo) CountByLocation(location string) (int64, error) {
	var count int64
	err := r.db.Model(&Recorder{}).Where("location = ?", location).Count(&count).Error
	return count, err
}
