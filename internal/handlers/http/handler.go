package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

const timeoutDuration = 30 * time.Second

type searchService interface {
	Search(ctx context.Context, city string) (models.SearchResult, error)
	Restore(ctx context.Context) (models.SearchResult, bool, error)
	History() ([]string, error)
	Favorites() ([]string, error)
	AddFavorite(city string) (string, bool, error)
	RemoveFavorite(city string) (string, error)
	IsFavorite(city string) (string, bool, error)
}

type Handler struct {
	service searchService
}

func NewHandler(svc searchService) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/weather", h.GetWeather)
	api.GET("/weather/last", h.GetLastWeather)
	api.GET("/history", h.GetHistory)
	api.GET("/favorites", h.ListFavorites)
	api.POST("/favorites", h.AddFavorite)
	api.GET("/favorites/:city", h.GetFavorite)
	api.DELETE("/favorites/:city", h.RemoveFavorite)
}

func (h *Handler) GetWeather(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city query parameter is required"})
		return
	}
	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	res, err := h.service.Search(ctxWithTimeout, city)
	h.respondWeather(c, res, err)
}

func (h *Handler) GetLastWeather(c *gin.Context) {
	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	res, ok, err := h.service.Restore(ctxWithTimeout)
	if err == nil && !ok {
		c.Status(http.StatusNoContent)
		return
	}
	h.respondWeather(c, res, err)
}

func (h *Handler) respondWeather(c *gin.Context, res models.SearchResult, err error) {
	if err != nil && (res.City == "" || !errors.Is(err, models.ErrPersistence)) {
		writeError(c, err)
		return
	}

	view := NewWeatherView(res)
	if err != nil {
		view.Warning = "search was not saved to history"
	}
	if _, fav, favErr := h.service.IsFavorite(res.City); favErr == nil {
		view.Favorite = fav
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetHistory(c *gin.Context) {
	hist, err := h.service.History()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": hist})
}

func (h *Handler) ListFavorites(c *gin.Context) {
	favs, err := h.service.Favorites()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favs})
}

type favoriteRequest struct {
	City string `json:"city" binding:"required"`
}

func (h *Handler) AddFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}

	city, added, err := h.service.AddFavorite(req.City)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"city": city, "favorite": true})
}

func (h *Handler) GetFavorite(c *gin.Context) {
	city, ok, err := h.service.IsFavorite(c.Param("city"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "favorite": ok})
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	city, err := h.service.RemoveFavorite(c.Param("city"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "favorite": false})
}

func writeError(c *gin.Context, err error) {
	var pErr *models.ProviderError
	var tErr *models.TransportError

	switch {
	case errors.Is(err, models.ErrEmptyCity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "city must not be empty"})
	case errors.Is(err, models.ErrLookupFailure):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown location"})
	case errors.As(err, &pErr), errors.As(err, &tErr), errors.Is(err, models.ErrMalformedResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "weather provider unavailable"})
	case errors.Is(err, models.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not access saved data"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
