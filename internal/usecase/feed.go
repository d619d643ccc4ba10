package usecase

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/sahara-community/pulse/internal/domain"
)

type FeedUsecase struct {
	campaigns CampaignRepository
	publisher Publisher
}

func NewFeedUsecase(campaigns CampaignRepository, publisher Publisher) *FeedUsecase {
	return &FeedUsecase{campaigns: campaigns, publisher: publisher}
}

func (uc *FeedUsecase) PostCreated(ctx context.Context, post domain.CommunityPost) error {
	ctx, span := tracer.Start(ctx, "Feed.Usecase.PostCreated")
	defer span.End()

	if post.ID == "" {
		return fmt.Errorf("%w: post without id", domain.ErrInvalidPayload)
	}

	return uc.publisher.Publish(ctx, domain.CommunityFeedTopic, domain.NewCommunityPostFeedItem(post))
}

// UpdateCampaign saves the campaign and, once committed, broadcasts the
// change on the donations topic.
func (uc *FeedUsecase) UpdateCampaign(ctx context.Context, campaign domain.DonationCampaign) (domain.DonationCampaign, error) {
	ctx, span := tracer.Start(ctx, "Feed.Usecase.UpdateCampaign")
	defer span.End()

	if campaign.Title == "" {
		return domain.DonationCampaign{}, fmt.Errorf("%w: campaign without title", domain.ErrInvalidPayload)
	}

	saved, err := uc.campaigns.Save(ctx, campaign)
	if err != nil {
		span.RecordError(err)
		return domain.DonationCampaign{}, errors.Wrap(err, "save campaign")
	}

	err = uc.publisher.Publish(ctx, domain.DonationsTopic, domain.DonationUpdate{
		Type:       domain.DonationUpdateType,
		Message:    "Donation campaign updated",
		CampaignID: saved.ID,
	})
	if err != nil {
		return saved, err
	}

	return saved, nil
}
