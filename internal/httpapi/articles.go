// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/inkwell/inkwell/internal/content"
	"github.com/inkwell/inkwell/internal/validate"
)

type createArticleRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"categoryId"`
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	var req createArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	in := validate.Input{
		validate.FieldTitle:       req.Title,
		validate.FieldBody:        req.Body,
		validate.FieldDescription: req.Description,
	}
	if !s.runValidation(w, r, validate.Article(), in) {
		return
	}

	draft := content.Draft{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		Tags:        req.Tags,
	}
	if req.CategoryID != "" {
		categoryID, err := ulid.Parse(req.CategoryID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "categoryId is not a valid id")
			return
		}
		draft.CategoryID = &categoryID
	}

	view, err := s.articles.CreateArticle(r.Context(), identity.UserID, draft)
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "an article with that title already exist")
		return
	}
	respondData(w, http.StatusCreated, "article created successfully", view)
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := content.SearchFilter{
		Query:  query.Get("q"),
		Author: query.Get("author"),
		Tag:    query.Get("tag"),
	}
	if raw := query.Get("categoryId"); raw != "" {
		categoryID, err := ulid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "categoryId is not a valid id")
			return
		}
		filter.CategoryID = &categoryID
	}

	limit := queryInt(r, "limit", content.DefaultPageLimit)
	offset := queryInt(r, "offset", 0)

	list, err := s.articles.ListArticles(r.Context(), filter, limit, offset)
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	if len(list.Articles) == 0 {
		respondError(w, http.StatusNotFound, "no articles found")
		return
	}
	respondData(w, http.StatusOK, "articles retrieved successfully", list)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	view, err := s.articles.GetArticle(r.Context(), r.PathValue("slug"))
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	respondData(w, http.StatusOK, "article retrieved successfully", view)
}

type rateArticleRequest struct {
	Rating int `json:"rating"`
}

func (s *Server) handleRateArticle(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	var req rateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if req.Rating < content.MinRating || req.Rating > content.MaxRating {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	view, err := s.articles.RateArticle(r.Context(), r.PathValue("slug"), identity.UserID, req.Rating)
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	respondData(w, http.StatusCreated, "article rated successfully", view)
}

func (s *Server) handleLikeArticle(w http.ResponseWriter, r *http.Request) {
	s.reactToArticle(w, r, true, http.StatusCreated, "successfully liked article")
}

func (s *Server) handleDislikeArticle(w http.ResponseWriter, r *http.Request) {
	s.reactToArticle(w, r, false, http.StatusOK, "successfully disliked article")
}

func (s *Server) reactToArticle(w http.ResponseWriter, r *http.Request, liked bool, code int, message string) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	view, err := s.articles.LikeArticle(r.Context(), r.PathValue("slug"), identity.UserID, liked)
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	respondData(w, code, message, view)
}

type reportArticleRequest struct {
	ReportType string `json:"reportType"`
	Comment    string `json:"comment"`
}

func (s *Server) handleReportArticle(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	var req reportArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	reportType := content.ReportType(req.ReportType)
	if !content.ValidReportType(reportType) {
		respondError(w, http.StatusBadRequest, "reportType must be one of spam, plagiarism, rules violation, others")
		return
	}

	report, err := s.articles.ReportArticle(r.Context(), r.PathValue("slug"), identity.UserID, reportType, req.Comment)
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	respondData(w, http.StatusCreated, "article reported successfully", report)
}
