package repository

import (
	"context"
	"errors"
	"time"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// Airlines GORM model for database mapping
type Airlines struct {
	ID         uint           `gorm:"primaryKey"`
	Address    string         `gorm:"column:address;size:42;uniqueIndex"`
	Name       string         `gorm:"column:name"`
	Registered bool           `gorm:"column:registered"`
	Funded     bool           `gorm:"column:funded"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "dapp_airlines"
}

// Migrate creates or updates the airline table
func (r *GormAirlineRepository) Migrate() error {
	return r.db.AutoMigrate(&Airlines{})
}

func toAirlineEntity(airline Airlines) *entity.Airline {
	return &entity.Airline{
		Name:       airline.Name,
		Address:    common.HexToAddress(airline.Address),
		Registered: airline.Registered,
		Funded:     airline.Funded,
		CreatedAt:  airline.CreatedAt,
		UpdatedAt:  airline.UpdatedAt,
	}
}

// Save inserts the airline or updates the row with the same address
func (r *GormAirlineRepository) Save(ctx context.Context, airline *entity.Airline) error {
	model := Airlines{
		Address:    airline.Address.Hex(),
		Name:       airline.Name,
		Registered: airline.Registered,
		Funded:     airline.Funded,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "registered", "funded", "updated_at"}),
	}).Create(&model)

	return result.Error
}

// GetByAddress finds an airline by address
func (r *GormAirlineRepository) GetByAddress(ctx context.Context, address common.Address) (*entity.Airline, error) {
	var airline Airlines
	result := r.db.WithContext(ctx).Where("address = ?", address.Hex()).First(&airline)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrAirlineNotFound
		}
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return toAirlineEntity(airline), nil
}

// List returns every airline in creation order
func (r *GormAirlineRepository) List(ctx context.Context) ([]*entity.Airline, error) {
	var rows []Airlines
	result := r.db.WithContext(ctx).Order("id").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	airlines := make([]*entity.Airline, 0, len(rows))
	for _, row := range rows {
		airlines = append(airlines, toAirlineEntity(row))
	}
	return airlines, nil
}
