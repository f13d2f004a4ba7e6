package handler

import (
	"errors"
	"net/http"

	"doutoragenda/internal/apierror"
	"doutoragenda/internal/dto"
	"doutoragenda/internal/middleware"
	"doutoragenda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DoctorsHandler struct{ svc service.DoctorService }

func NewDoctorsHandler(svc service.DoctorService) *DoctorsHandler {
	return &DoctorsHandler{svc: svc}
}

func (h *DoctorsHandler) Create(c *gin.Context) {
	var req dto.CreateDoctorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	clinicID, _ := uuid.Parse(claims.ClinicID)

	resp, err := h.svc.Create(c.Request.Context(), clinicID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrCrmTaken) {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DoctorsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid doctor id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrDoctorNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DoctorsHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	clinicID, _ := uuid.Parse(claims.ClinicID)

	resp, err := h.svc.List(c.Request.Context(), clinicID, c.Query("specialty"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DoctorsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid doctor id"))
		return
	}
	var req dto.UpdateDoctorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrDoctorNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DoctorsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid doctor id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DoctorsHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid doctor id"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
