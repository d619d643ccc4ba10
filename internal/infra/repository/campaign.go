package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sahara-community/pulse/internal/domain"
	"github.com/sahara-community/pulse/internal/infra/database/models"
	"github.com/sahara-community/pulse/internal/usecase"
)

var _ usecase.CampaignRepository = (*CampaignRepository)(nil)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Save(ctx context.Context, campaign domain.DonationCampaign) (domain.DonationCampaign, error) {
	model := models.DonationCampaign{
		ID:            campaign.ID,
		Title:         campaign.Title,
		Description:   campaign.Description,
		TargetAmount:  campaign.TargetAmount,
		CurrentAmount: campaign.CurrentAmount,
		Location:      campaign.Location,
		CreatedBy:     campaign.CreatedBy,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "target_amount", "current_amount", "location"}),
	}).Create(&model).Error
	if err != nil {
		return domain.DonationCampaign{}, err
	}

	if err := r.db.WithContext(ctx).Where("id = ?", model.ID).Take(&model).Error; err != nil {
		return domain.DonationCampaign{}, err
	}

	return domain.DonationCampaign{
		ID:            model.ID,
		Title:         model.Title,
		Description:   model.Description,
		TargetAmount:  model.TargetAmount,
		CurrentAmount: model.CurrentAmount,
		Location:      model.Location,
		CreatedBy:     model.CreatedBy,
		CreatedAt:     model.CDate,
	}, nil
}
