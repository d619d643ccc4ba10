package domain

import "time"

type HelpRequest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Status      string    `json:"status"`
	IsEmergency bool      `json:"is_emergency"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Coordinates reports the request location, ok is false unless both axes are set.
func (r HelpRequest) Coordinates() (float64, float64, bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return 0, 0, false
	}
	return *r.Latitude, *r.Longitude, true
}

func (r HelpRequest) Emergency() bool { return r.IsEmergency }

func (r HelpRequest) Created() time.Time { return r.CreatedAt }

// NearbyHelpRequest is a help request annotated with its distance to the viewer.
type NearbyHelpRequest struct {
	HelpRequest
	Distance *float64 `json:"distance"`
	IsNearby bool     `json:"is_nearby"`
}

type Application struct {
	ID            string `json:"id"`
	HelpRequestID string `json:"help_request"`
	ApplicantID   string `json:"user"`
	ApplicantName string `json:"applicant_name"`
	Letter        string `json:"letter"`
	Status        string `json:"status"`
}

type CommunityPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DonationCampaign struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Location      string    `json:"location"`
	CreatedBy     *string   `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}
