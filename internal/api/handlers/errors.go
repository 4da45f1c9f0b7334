package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/allenlarson/pokemontcgtrader/internal/services"
)

var badRequestErrors = []error{
	services.ErrInvalidUsername,
	services.ErrInvalidCondition,
	services.ErrInvalidPriority,
	services.ErrInvalidQuantity,
	services.ErrMissingCardID,
	services.ErrMissingSetID,
	services.ErrEmptyAvatar,
	services.ErrAvatarTooLarge,
	services.ErrUnsupportedImage,
}

// respondError writes err as {"error": message} with the matching status.
func respondError(c *gin.Context, err error) {
	var ingErr *services.IngestionError
	switch {
	case errors.Is(err, services.ErrMissingAPIKey):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Pokemon TCG API key not configured"})
	case errors.As(err, &ingErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": ingErr.Message})
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
	case errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
	case errors.Is(err, services.ErrProfileExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Profile already exists"})
	case isBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func isBadRequest(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
