package handler

import (
	"errors"
	"net/http"
	"strconv"

	"doutoragenda/internal/apierror"
	"doutoragenda/internal/dto"
	"doutoragenda/internal/middleware"
	"doutoragenda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PatientsHandler struct{ svc service.PatientService }

func NewPatientsHandler(svc service.PatientService) *PatientsHandler {
	return &PatientsHandler{svc: svc}
}

func (h *PatientsHandler) Create(c *gin.Context) {
	var req dto.CreatePatientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	clinicID, _ := uuid.Parse(claims.ClinicID)

	resp, err := h.svc.Create(c.Request.Context(), clinicID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PatientsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid patient id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrPatientNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PatientsHandler) List(c *gin.Context) {
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

	resp, total, err := h.svc.List(c.Request.Context(), clinicID, c.Query("search"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": total, "page": page, "limit": limit})
}

func (h *PatientsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid patient id"))
		return
	}
	var req dto.UpdatePatientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrPatientNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PatientsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid patient id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PatientsHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid patient id"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
