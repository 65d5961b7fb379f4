package controllers

import (
	"net/http"

	"hotel-reservation-backend/services"
	"hotel-reservation-backend/utils"

	"github.com/gin-gonic/gin"
)

type ClientController struct {
	service *services.ClientService
}

func NewClientController(service *services.ClientService) *ClientController {
	return &ClientController{service: service}
}

type clientRequest struct {
	Name       string `json:"name" binding:"required"`
	NationalID string `json:"nationalId" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	PostalCode string `json:"postalCode"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
}

func (req *clientRequest) toInput() services.ClientInput {
	return services.ClientInput{
		Name:       req.Name,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		PostalCode: req.PostalCode,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
		District:   req.District,
		City:       req.City,
		State:      req.State,
	}
}

func (cc *ClientController) List(c *gin.Context) {
	clients, err := cc.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, clients)
}

func (cc *ClientController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := cc.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, client)
}

func (cc *ClientController) Create(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	client, err := cc.service.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, client)
}

func (cc *ClientController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	client, err := cc.service.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, client)
}

func (cc *ClientController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := cc.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "client deleted")
}
