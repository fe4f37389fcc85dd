package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Timezonelist GORM model for database mapping. The airport master data
// lives in the timezone list table.
type Timezonelist struct {
	ID          uint           `gorm:"primaryKey"`
	AirportCode string         `gorm:"column:airportcode;unique"`
	AirportName string         `gorm:"column:airport_name"`
	CityCode    string         `gorm:"column:citycode"`
	CityName    string         `gorm:"column:cityname"`
	TzName      string         `gorm:"column:tzname"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (Timezonelist) TableName() string {
	return "m_timezone_list"
}

// GetByAirportCode finds an airport by IATA code
func (r *GormAirportRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error) {
	var row Timezonelist
	result := r.db.WithContext(ctx).Where("airportcode = ?", strings.ToUpper(strings.TrimSpace(code))).First(&row)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("airport %q: %w", code, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("query airport %q: %w", code, result.Error)
	}

	return &entity.Airport{
		ID:          row.ID,
		AirportCode: row.AirportCode,
		AirportName: row.AirportName,
		CityCode:    row.CityCode,
		CityName:    row.CityName,
		TzName:      row.TzName,
	}, nil
}
