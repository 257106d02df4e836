package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a create without duplicating the record.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay is set on a create response that returned an earlier record.
const HeaderIdempotentReplay = "Idempotent-Replay"

// TradeHandler serves the caller's own trading records.
type TradeHandler struct {
	service ports.TradeService
}

func NewTradeHandler(service ports.TradeService) *TradeHandler {
	return &TradeHandler{service: service}
}

// List handles GET /v1/records.
//
// @Summary      List the caller's trading records
// @Description  Newest trade date first. Each row carries its signed display amount.
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  recordListResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /v1/records [get]
func (h *TradeHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	records, err := h.service.ListRecords(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecordListResponse(records))
}

// Get handles GET /v1/records/:id.
//
// @Summary      Get one trading record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  recordResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/records/{id} [get]
func (h *TradeHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	rec, err := h.service.GetRecord(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecordResponse(rec))
}

// Create handles POST /v1/records.
//
// @Summary      Record a trade
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string         false  "Retrying with the same key returns the original record"
// @Param        body             body      recordRequest  true   "Trade details"
// @Success      201              {object}  recordResponse
// @Success      200              {object}  recordResponse  "Replayed by Idempotency-Key"
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Router       /v1/records [post]
func (h *TradeHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	fields, err := bindRecord(c)
	if err != nil {
		return err
	}

	result, err := h.service.CreateRecord(c.Request().Context(), ports.CreateRecordInput{
		OwnerID:        userID,
		Fields:         fields,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
		c.Response().Header().Set(HeaderIdempotentReplay, "true")
	}
	return c.JSON(status, toRecordResponse(result.Record))
}

// Update handles PUT /v1/records/:id. All editable fields are replaced.
//
// @Summary      Replace a trading record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Record id"
// @Param        body  body      recordRequest  true  "Trade details"
// @Success      200   {object}  recordResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/records/{id} [put]
func (h *TradeHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	fields, err := bindRecord(c)
	if err != nil {
		return err
	}

	rec, err := h.service.UpdateRecord(c.Request().Context(), userID, c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecordResponse(rec))
}

// Delete handles DELETE /v1/records/:id.
//
// @Summary      Delete a trading record
// @Tags         records
// @Security     BearerAuth
// @Param        id   path  string  true  "Record id"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/records/{id} [delete]
func (h *TradeHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteRecord(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /v1/records/summary.
//
// @Summary      Profit/loss summary of the caller's records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  summaryResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/records/summary [get]
func (h *TradeHandler) Summary(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Summary(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponse(stats))
}

func bindRecord(c echo.Context) (domain.TradeFields, error) {
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return domain.TradeFields{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.TradeFields{}, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return toTradeFields(req)
}
