package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"droscher.com/BreweryFinder/pkg/model"
)

func (r *Repository) GetBeerPhoto(ctx context.Context, id string) (*model.BeerPhoto, error) {
	photoID, err := parseID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var photo model.BeerPhoto

	result := r.DB.WithContext(ctx).First(&photo, photoID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, result.Error
	}

	return &photo, nil
}

func (r *Repository) AddBeerPhoto(ctx context.Context, beerID uint, name string, data []byte) (*model.BeerPhoto, error) {
	photo := model.BeerPhoto{BeerID: beerID, PhotoName: name, Data: data}

	if result := r.DB.WithContext(ctx).Create(&photo); result.Error != nil {
		return nil, result.Error
	}

	return &photo, nil
}

func (r *Repository) UpdateBeerPhoto(ctx context.Context, photo *model.BeerPhoto, name string, data []byte) error {
	result := r.DB.WithContext(ctx).Model(photo).Updates(map[string]any{
		"photo_name": name,
		"data":       data,
	})

	return result.Error
}

func (r *Repository) DeleteBeerPhoto(ctx context.Context, photo *model.BeerPhoto) (uint, error) {
	id := photo.ID

	if result := r.DB.WithContext(ctx).Delete(photo); result.Error != nil {
		return 0, result.Error
	}

	return id, nil
}
