package controllers

import (
	"net/http"

	"hotel-reservation-backend/services"
	"hotel-reservation-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	service *services.RoomService
}

func NewRoomController(service *services.RoomService) *RoomController {
	return &RoomController{service: service}
}

type roomRequest struct {
	RoomNumber  string  `json:"roomNumber" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Capacity    int     `json:"capacity"`
	NightlyRate float64 `json:"nightlyRate"`
	Description string  `json:"description"`
}

func (req *roomRequest) toInput() services.RoomInput {
	return services.RoomInput{
		RoomNumber:  req.RoomNumber,
		Type:        req.Type,
		Capacity:    req.Capacity,
		NightlyRate: req.NightlyRate,
		Description: req.Description,
	}
}

func (rc *RoomController) List(c *gin.Context) {
	rooms, err := rc.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	room, err := rc.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) Create(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	room, err := rc.service.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (rc *RoomController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	room, err := rc.service.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := rc.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "room deleted")
}
