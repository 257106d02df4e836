package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

// AdminHandler serves the user directory. Routes are mounted behind RBAC.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type directoryEntryResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type directoryResponse struct {
	Users []directoryEntryResponse `json:"users"`
	Count int                      `json:"count"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

type setRoleResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type directoryStatsResponse struct {
	TotalUsers   int   `json:"total_users"`
	TotalRecords int64 `json:"total_records"`
	AdminUsers   int   `json:"admin_users"`
	ActiveUsers  int   `json:"active_users"`
}

// ListUsers handles GET /v1/admin/users.
//
// @Summary      List every user with their role
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  directoryResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	entries, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	users := make([]directoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		users = append(users, directoryEntryResponse{
			UserID:      e.UserID,
			Email:       e.Email,
			DisplayName: e.DisplayName,
			Role:        string(e.Role),
			CreatedAt:   e.CreatedAt.UTC(),
		})
	}
	return c.JSON(http.StatusOK, directoryResponse{Users: users, Count: len(users)})
}

// SetRole handles PUT /v1/admin/users/:id/role.
//
// @Summary      Assign a role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "User id"
// @Param        body  body      setRoleRequest  true  "Role to assign"
// @Success      200   {object}  setRoleResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	userID := c.Param("id")
	role, err := h.service.SetRole(c.Request().Context(), userID, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, setRoleResponse{UserID: userID, Role: string(role)})
}

// CountRecords handles GET /v1/admin/records/count.
//
// @Summary      Total trading records across all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  countResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/records/count [get]
func (h *AdminHandler) CountRecords(c echo.Context) error {
	n, err := h.service.CountRecords(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

// Stats handles GET /v1/admin/stats.
//
// @Summary      Directory statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  directoryStatsResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	s, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, directoryStatsResponse{
		TotalUsers:   s.TotalUsers,
		TotalRecords: s.TotalRecords,
		AdminUsers:   s.AdminUsers,
		ActiveUsers:  s.ActiveUsers,
	})
}
