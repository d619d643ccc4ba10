package rest

import (
	"github.com/labstack/echo/v4"

	"github.com/sahara-community/pulse/internal/domain"
	"github.com/sahara-community/pulse/internal/present/rest/presenter"
)

type applicationEvent struct {
	Application domain.Application `json:"application"`
	HelpRequest domain.HelpRequest `json:"help_request"`
}

type applicationDecision struct {
	Application domain.Application `json:"application"`
	HelpRequest domain.HelpRequest `json:"help_request"`
	Approved    bool               `json:"approved"`
}

func accepted(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleHelpRequestCreated(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.HelpRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.helpRequests.Created(ctx, req); err != nil {
		return presenter.Error(c, err)
	}
	return accepted(c)
}

func (h *Handler) handleApplicationSubmitted(c echo.Context) error {
	ctx := c.Request().Context()

	var event applicationEvent
	if err := c.Bind(&event); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.helpRequests.ApplicationSubmitted(ctx, event.Application, event.HelpRequest); err != nil {
		return presenter.Error(c, err)
	}
	return accepted(c)
}

func (h *Handler) handleApplicationDecided(c echo.Context) error {
	ctx := c.Request().Context()

	var event applicationDecision
	if err := c.Bind(&event); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.helpRequests.ApplicationDecided(ctx, event.Application, event.HelpRequest, event.Approved); err != nil {
		return presenter.Error(c, err)
	}
	return accepted(c)
}

func (h *Handler) handleHelpRequestUpdated(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.HelpRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.helpRequests.StatusChanged(ctx, req); err != nil {
		return presenter.Error(c, err)
	}
	return accepted(c)
}

func (h *Handler) handleCommunityPostCreated(c echo.Context) error {
	ctx := c.Request().Context()

	var post domain.CommunityPost
	if err := c.Bind(&post); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.feed.PostCreated(ctx, post); err != nil {
		return presenter.Error(c, err)
	}
	return accepted(c)
}

func (h *Handler) handleDonationCampaignUpdated(c echo.Context) error {
	ctx := c.Request().Context()

	var campaign domain.DonationCampaign
	if err := c.Bind(&campaign); err != nil {
		return presenter.BadRequest(c, err)
	}

	saved, err := h.feed.UpdateCampaign(ctx, campaign)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, saved)
}
