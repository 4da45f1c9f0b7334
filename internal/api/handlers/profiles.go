package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allenlarson/pokemontcgtrader/internal/auth"
	"github.com/allenlarson/pokemontcgtrader/internal/models"
	"github.com/allenlarson/pokemontcgtrader/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profiles}
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfileByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if profile == nil {
		respondError(c, services.ErrProfileNotFound)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), auth.UserID(c), req.Username, req.Bio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), auth.UserID(c), req.Bio, req.SocialLinks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadAvatar takes the image from the multipart "avatar" field.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	if header.Size > services.MaxAvatarBytes {
		respondError(c, services.ErrAvatarTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid avatar upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxAvatarBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid avatar upload"})
		return
	}

	profile, err := h.profileService.SetAvatar(c.Request.Context(), auth.UserID(c), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	available, err := h.profileService.IsUsernameAvailable(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "available": available})
}

// GetTradePage is the public view of a user's tradeable cards and want list.
func (h *ProfileHandler) GetTradePage(c *gin.Context) {
	public, err := h.profileService.GetPublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if public == nil {
		respondError(c, services.ErrProfileNotFound)
		return
	}
	c.JSON(http.StatusOK, public)
}
