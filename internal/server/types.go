package server

import "gameboxd/internal/rawg"

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type submitReviewRequest struct {
	GameName string `json:"game_name"`
	Rating   string `json:"rating"`
	Comment  string `json:"comment"`
	Source   string `json:"source"`
	Price    string `json:"price"`
	OnSale   bool   `json:"on_sale"`
}

type editReviewRequest struct {
	Rating  string `json:"rating"`
	Comment string `json:"comment"`
	Source  string `json:"source"`
	Price   string `json:"price"`
}

type reviewPayload struct {
	ID            int64   `json:"id"`
	GameID        int64   `json:"game_id"`
	GameName      string  `json:"game_name,omitempty"`
	Rating        string  `json:"rating"`
	LatestRating  float64 `json:"latest_rating"`
	AverageRating float64 `json:"average_rating"`
	Comment       string  `json:"comment,omitempty"`
	Source        string  `json:"source,omitempty"`
	Price         string  `json:"price,omitempty"`
}

type reviewListResponse struct {
	Reviews []reviewPayload `json:"reviews"`
	Total   int             `json:"total"`
	// MeanRating averages the latest rating of each review.
	MeanRating float64 `json:"mean_rating"`
}

type searchResponse struct {
	Results []rawg.SearchResult `json:"results"`
	Details *rawg.GameDetails   `json:"details,omitempty"`
}

type popularEntry struct {
	GameID        int64   `json:"game_id"`
	Name          string  `json:"name"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
	CoverURL      string  `json:"cover_url,omitempty"`
}

type popularResponse struct {
	Games []popularEntry `json:"games"`
}

type statusResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
