package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ArticleFeed/internal/domain"
)

type thumbnailDTO struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type articleDTO struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Extract   string        `json:"extract"`
	URL       string        `json:"url"`
	PageID    int64         `json:"pageid"`
	Thumbnail *thumbnailDTO `json:"thumbnail,omitempty"`
}

type feedResponse struct {
	Articles []articleDTO `json:"articles"`
	Loading  bool         `json:"loading"`
}

type scrollRequest struct {
	Delta float64 `json:"delta"`
}

type likeRequest struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Extract string `json:"extract"`
}

type likeDTO struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Extract string `json:"extract"`
	LikedAt string `json:"likedAt"`
}

func (rt *Router) getFeed(w http.ResponseWriter, r *http.Request) {
	rt.writeFeed(w)
}

func (rt *Router) moreFeed(w http.ResponseWriter, r *http.Request) {
	rt.engine.GetMore(r.Context())
	rt.writeFeed(w)
}

func (rt *Router) recordScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid scroll payload")
		return
	}
	rt.engine.UpdateScrollSpeed(req.Delta)
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) writeFeed(w http.ResponseWriter) {
	displayed := rt.engine.Displayed()
	resp := feedResponse{
		Articles: make([]articleDTO, 0, len(displayed)),
		Loading:  rt.engine.Loading(),
	}
	for _, article := range displayed {
		resp.Articles = append(resp.Articles, toArticleDTO(article))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) listLikes(w http.ResponseWriter, r *http.Request) {
	if rt.likes == nil {
		writeError(w, http.StatusServiceUnavailable, "likes storage disabled")
		return
	}

	likes, err := rt.likes.List(r.Context())
	if err != nil {
		rt.errorLog("list likes", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list likes")
		return
	}

	dtos := make([]likeDTO, 0, len(likes))
	for _, like := range likes {
		dtos = append(dtos, likeDTO{
			ID:      like.ID,
			Title:   like.Title,
			URL:     like.URL,
			Extract: like.Extract,
			LikedAt: like.LikedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (rt *Router) saveLike(w http.ResponseWriter, r *http.Request) {
	if rt.likes == nil {
		writeError(w, http.StatusServiceUnavailable, "likes storage disabled")
		return
	}

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid like payload")
		return
	}
	if req.URL == "" || req.Title == "" {
		writeError(w, http.StatusBadRequest, "title and url are required")
		return
	}

	like := domain.LikedArticle{Title: req.Title, URL: req.URL, Extract: req.Extract}
	if err := rt.likes.Save(r.Context(), like); err != nil {
		rt.errorLog("save like", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save like")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (rt *Router) deleteLike(w http.ResponseWriter, r *http.Request) {
	if rt.likes == nil {
		writeError(w, http.StatusServiceUnavailable, "likes storage disabled")
		return
	}

	id := chi.URLParam(r, "likeID")
	if err := rt.likes.Delete(r.Context(), id); err != nil {
		rt.errorLog("delete like", "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete like")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toArticleDTO(article domain.Article) articleDTO {
	dto := articleDTO{
		ID:      article.ID,
		Title:   article.Title,
		Extract: article.Extract,
		URL:     article.URL,
		PageID:  article.PageID,
	}
	if article.Thumbnail != nil {
		dto.Thumbnail = &thumbnailDTO{
			Source: article.Thumbnail.Source,
			Width:  article.Thumbnail.Width,
			Height: article.Thumbnail.Height,
		}
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (rt *Router) errorLog(msg string, args ...any) {
	if rt.logger != nil {
		rt.logger.Error(msg, args...)
	}
}
