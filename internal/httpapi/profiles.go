// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/content"
	"github.com/inkwell/inkwell/internal/validate"
)

type profileView struct {
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Gender    string `json:"gender"`
	Bio       string `json:"bio"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Image     string `json:"image"`
}

func toProfileView(p *auth.Profile) profileView {
	return profileView{
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Gender:    p.Gender,
		Bio:       p.Bio,
		Phone:     p.Phone,
		Address:   p.Address,
		Image:     p.Image,
	}
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", content.DefaultPageLimit)
	offset := queryInt(r, "offset", 0)

	profiles, err := s.profiles.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}

	views := make([]profileView, 0, len(profiles))
	for _, profile := range profiles {
		views = append(views, toProfileView(profile))
	}
	respondData(w, http.StatusOK, "profiles retrieved successfully", views)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	profile, err := s.profiles.GetByUsername(r.Context(), username)
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	respondData(w, http.StatusOK, "profile retrieved successfully", toProfileView(profile))
}

type updateProfileRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Gender    string `json:"gender"`
	Bio       string `json:"bio"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Image     string `json:"image"`
}

// handleUpdateProfile updates the caller's own profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	in := validate.Input{
		validate.FieldFirstName: req.FirstName,
		validate.FieldLastName:  req.LastName,
	}
	if !s.runValidation(w, r, validate.Profile(), in) {
		return
	}

	profile, err := s.profiles.GetByUser(r.Context(), identity.UserID)
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}

	profile.FirstName = in[validate.FieldFirstName]
	profile.LastName = in[validate.FieldLastName]
	profile.Gender = req.Gender
	profile.Bio = req.Bio
	profile.Phone = req.Phone
	profile.Address = req.Address
	profile.Image = req.Image
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Update(r.Context(), profile); err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	respondData(w, http.StatusOK, "profile updated successfully", toProfileView(profile))
}

// queryInt parses a non-negative integer query parameter, falling back
// on absent or malformed values.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
