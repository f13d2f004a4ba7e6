package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"doutoragenda/internal/apierror"
	"doutoragenda/internal/dto"
	"doutoragenda/internal/middleware"
	"doutoragenda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashHandler struct {
	svc            service.CashService
	pdfStoragePath string
}

func NewCashHandler(svc service.CashService, pdfStoragePath string) *CashHandler {
	return &CashHandler{svc: svc, pdfStoragePath: pdfStoragePath}
}

// cashErrorStatus maps the cash service's sentinel errors to HTTP status codes.
func cashErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrOperationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyOpen),
		errors.Is(err, service.ErrAlreadyClosed),
		errors.Is(err, service.ErrProtectedOperation),
		errors.Is(err, service.ErrSessionSuspended):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Open godoc
// @Summary Opens the daily cash session for the authenticated user
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenCashRequest true "Opening data"
// @Success 201 {object} dto.CashSessionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash/open [post]
func (h *CashHandler) Open(c *gin.Context) {
	var req dto.OpenCashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	clinicID, _ := uuid.Parse(claims.ClinicID)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Open(c.Request.Context(), clinicID, userID, req)
	if err != nil {
		c.JSON(cashErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AddOperation godoc
// @Summary Appends a cash_in/cash_out/adjustment operation to a session
// @Description Allowed on open AND closed sessions; post-close entries are
// @Description stamped added_to_closed_cash and the difference is re-derived.
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AddOperationRequest true "Operation data"
// @Success 201 {object} dto.CashOperationResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/cash/operations [post]
func (h *CashHandler) AddOperation(c *gin.Context) {
	var req dto.AddOperationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddOperation(c.Request.Context(), req)
	if err != nil {
		c.JSON(cashErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DeleteOperation godoc
// @Summary Deletes a cash operation and recomputes the session totals
// @Tags cash
// @Produce json
// @Security BearerAuth
// @Param id path string true "Operation ID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash/operations/{id} [delete]
func (h *CashHandler) DeleteOperation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid operation id"))
		return
	}
	if err := h.svc.DeleteOperation(c.Request.Context(), id); err != nil {
		c.JSON(cashErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Close godoc
// @Summary Closes a cash session, freezing the counted amount
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseCashRequest true "Closing data"
// @Success 200 {object} dto.CashSessionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cash/close [post]
func (h *CashHandler) Close(c *gin.Context) {
	var req dto.CloseCashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), req)
	if err != nil {
		c.JSON(cashErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCurrent returns the open cash session for the authenticated user today.
func (h *CashHandler) GetCurrent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	clinicID, _ := uuid.Parse(claims.ClinicID)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid user id"))
		return
	}
	resp, err := h.svc.GetOpen(c.Request.Context(), clinicID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("no open cash session"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetReport returns one session with its full operation ledger.
func (h *CashHandler) GetReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	resp, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		c.JSON(cashErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadReportPDF serves the PDF rendered by the closing-report worker.
func (h *CashHandler) DownloadReportPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	path := filepath.Join(h.pdfStoragePath, "daily_cash_"+id.String()+".pdf")
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("report not generated yet"))
		return
	}
	c.FileAttachment(path, "daily_cash_"+id.String()+".pdf")
}

// History returns a paginated list of the clinic's cash sessions.
func (h *CashHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	claims := middleware.GetClaims(c)
	clinicID, _ := uuid.Parse(claims.ClinicID)

	resp, total, err := h.svc.History(c.Request.Context(), clinicID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": total, "page": page, "limit": limit})
}
