package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

// MeHandler serves the caller's own profile and effective role.
type MeHandler struct {
	profiles ports.ProfileService
	roles    ports.RoleResolver
}

func NewMeHandler(profiles ports.ProfileService, roles ports.RoleResolver) *MeHandler {
	return &MeHandler{profiles: profiles, roles: roles}
}

type profileResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type roleResponse struct {
	Role string `json:"role"`
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

func toProfileResponse(p *domain.Profile, role domain.Role) profileResponse {
	return profileResponse{
		UserID:      p.UserID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        string(role),
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

// Profile handles GET /v1/me.
//
// @Summary      Caller's profile and role
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/me [get]
func (h *MeHandler) Profile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	p, err := h.profiles.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p, h.roles.Resolve(ctx, userID)))
}

// Role handles GET /v1/me/role. It always answers; lookup failures resolve
// to "user".
//
// @Summary      Caller's effective role
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roleResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/me/role [get]
func (h *MeHandler) Role(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roleResponse{Role: string(h.roles.Resolve(c.Request().Context(), userID))})
}

// UpdateProfile handles PATCH /v1/me/profile.
//
// @Summary      Change display name
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New display name"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/me/profile [patch]
func (h *MeHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	p, err := h.profiles.UpdateDisplayName(c.Request().Context(), userID, req.DisplayName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(p, ""))
}
