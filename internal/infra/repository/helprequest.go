package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sahara-community/pulse/internal/domain"
	"github.com/sahara-community/pulse/internal/infra/database/models"
	"github.com/sahara-community/pulse/internal/usecase"
)

var _ usecase.HelpRequestRepository = (*HelpRequestRepository)(nil)

type HelpRequestRepository struct {
	db *gorm.DB
}

func NewHelpRequestRepository(db *gorm.DB) *HelpRequestRepository {
	return &HelpRequestRepository{db: db}
}

func (r *HelpRequestRepository) List(ctx context.Context) ([]domain.HelpRequest, error) {
	var rows []models.HelpRequest
	err := r.db.WithContext(ctx).Order("c_date DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.HelpRequest, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.HelpRequest{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Category:    row.Category,
			Location:    row.Location,
			Latitude:    row.Latitude,
			Longitude:   row.Longitude,
			Status:      row.Status,
			IsEmergency: row.IsEmergency,
			CreatedBy:   row.CreatedBy,
			CreatedAt:   row.CDate,
		})
	}
	return result, nil
}
