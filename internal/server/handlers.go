package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gameboxd/internal/logging"
	"gameboxd/internal/review"
	"gameboxd/internal/store"
	"gameboxd/internal/users"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameTaken):
			s.writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, users.ErrInvalidUsername), errors.Is(err, users.ErrInvalidPassword):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("register failed", logging.Error(err))
			s.writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}
	s.writeJSON(w, http.StatusCreated, registerResponse{ID: user.ID, Username: user.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error("login failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	token := s.sessions.create(user.ID)
	s.writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		s.sessions.revoke(strings.TrimSpace(token))
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request, userID int64) {
	switch r.Method {
	case http.MethodGet:
		reviews, err := s.reviews.ListForUser(r.Context(), userID)
		if err != nil {
			s.logger.Error("list reviews failed", logging.Error(err))
			s.writeError(w, http.StatusInternalServerError, "could not list reviews")
			return
		}
		payload := reviewListResponse{Reviews: make([]reviewPayload, 0, len(reviews)), Total: len(reviews)}
		var sum float64
		var rated int
		for _, rv := range reviews {
			entry := toReviewPayload(rv)
			payload.Reviews = append(payload.Reviews, entry)
			if _, ok := review.ParseRatingHistory(rv.Rating).Latest(); ok {
				sum += entry.LatestRating
				rated++
			}
		}
		if rated > 0 {
			payload.MeanRating = sum / float64(rated)
		}
		s.writeJSON(w, http.StatusOK, payload)
	case http.MethodPost:
		var req submitReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.reviews.Submit(r.Context(), userID, review.Submission{
			GameName: req.GameName,
			Rating:   req.Rating,
			Comment:  req.Comment,
			Source:   req.Source,
			Price:    req.Price,
			OnSale:   req.OnSale,
		})
		if err != nil {
			s.writeReviewError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, toReviewPayload(created))
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleReviewItem(w http.ResponseWriter, r *http.Request, userID int64) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/reviews/")
	if idStr == "" || strings.Contains(idStr, "/") {
		s.writeError(w, http.StatusNotFound, "review not found")
		return
	}
	reviewID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rv, err := s.reviews.Get(r.Context(), userID, reviewID)
		if err != nil {
			s.writeReviewError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toReviewPayload(rv))
	case http.MethodPut:
		var req editReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		rv, err := s.reviews.EditReview(r.Context(), userID, reviewID, review.Edit{
			Rating:  req.Rating,
			Comment: req.Comment,
			Source:  req.Source,
			Price:   req.Price,
		})
		if err != nil {
			s.writeReviewError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toReviewPayload(rv))
	case http.MethodDelete:
		if err := s.reviews.Delete(r.Context(), userID, reviewID); err != nil {
			s.writeReviewError(w, err)
			return
		}
		s.writeJSON(w, http.StatusNoContent, nil)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, _ int64) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resp := searchResponse{Results: nil}
	if s.lookups != nil {
		resp.Results = s.lookups.Search(r.Context(), query, limit)
		if r.URL.Query().Get("details") == "1" && len(resp.Results) > 0 {
			resp.Details = s.lookups.Details(r.Context(), resp.Results[0].ID)
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	ranked, err := s.reviews.Popular(r.Context(), limit)
	if err != nil {
		s.logger.Error("popular ranking failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not rank games")
		return
	}
	resp := popularResponse{Games: make([]popularEntry, 0, len(ranked))}
	for _, entry := range ranked {
		out := popularEntry{
			GameID:        entry.GameID,
			Name:          entry.Name,
			ReviewCount:   entry.ReviewCount,
			AverageRating: entry.AverageRating,
		}
		// Cover enrichment is best effort; a cache hit makes it cheap.
		if s.lookups != nil {
			if details := s.lookups.Enrich(r.Context(), entry.Name); details != nil {
				out.CoverURL = details.CoverURL
			}
		}
		resp.Games = append(resp.Games, out)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var uptime int64
	if !s.started.IsZero() {
		uptime = int64(time.Since(s.started).Seconds())
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ok", UptimeSeconds: uptime})
}

func (s *Server) writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, review.ErrInvalidRating), errors.Is(err, review.ErrEmptyGameName):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, review.ErrAlreadyReviewed):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, review.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("review operation failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "review operation failed")
	}
}

func toReviewPayload(rv *store.Review) reviewPayload {
	history := review.ParseRatingHistory(rv.Rating)
	latest, _ := history.Latest()
	average, _ := history.Average()
	return reviewPayload{
		ID:            rv.ID,
		GameID:        rv.GameID,
		GameName:      rv.GameName,
		Rating:        rv.Rating,
		LatestRating:  latest,
		AverageRating: average,
		Comment:       rv.Comment,
		Source:        rv.Source,
		Price:         rv.Price,
	}
}
