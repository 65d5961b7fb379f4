package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hotel-reservation-backend/services"
	"hotel-reservation-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	service *services.ReservationService
}

func NewReservationController(service *services.ReservationService) *ReservationController {
	return &ReservationController{service: service}
}

type createReservationRequest struct {
	ClientIDs  []uint `json:"clientIds" binding:"required,min=1"`
	RoomID     uint   `json:"roomId" binding:"required"`
	CheckIn    string `json:"checkIn" binding:"required"`
	CheckOut   string `json:"checkOut" binding:"required"`
	GuestCount int    `json:"guestCount"`
}

type updateReservationRequest struct {
	ClientIDs  []uint  `json:"clientIds"`
	RoomID     *uint   `json:"roomId"`
	CheckIn    *string `json:"checkIn"`
	CheckOut   *string `json:"checkOut"`
	GuestCount *int    `json:"guestCount"`
	Status     *string `json:"status"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Confirmed Cancelled Completed"`
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (rc *ReservationController) List(c *gin.Context) {
	list, err := rc.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (rc *ReservationController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	r, err := rc.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (rc *ReservationController) Create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	checkIn, ok := parseDate(req.CheckIn)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "checkIn must be formatted as YYYY-MM-DD")
		return
	}
	checkOut, ok := parseDate(req.CheckOut)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "checkOut must be formatted as YYYY-MM-DD")
		return
	}

	r, err := rc.service.Create(c.Request.Context(), services.CreateReservationInput{
		ClientIDs:  req.ClientIDs,
		RoomID:     req.RoomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: req.GuestCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, r)
}

func (rc *ReservationController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	patch := services.ReservationPatch{
		ClientIDs:  req.ClientIDs,
		RoomID:     req.RoomID,
		GuestCount: req.GuestCount,
		Status:     req.Status,
	}
	if req.CheckIn != nil {
		t, ok := parseDate(*req.CheckIn)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "checkIn must be formatted as YYYY-MM-DD")
			return
		}
		patch.CheckIn = &t
	}
	if req.CheckOut != nil {
		t, ok := parseDate(*req.CheckOut)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "checkOut must be formatted as YYYY-MM-DD")
			return
		}
		patch.CheckOut = &t
	}

	r, err := rc.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (rc *ReservationController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status must be Confirmed, Cancelled or Completed")
		return
	}

	r, err := rc.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (rc *ReservationController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := rc.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "reservation deleted")
}
