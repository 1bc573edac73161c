package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yoockh/jobtrack/internal/attachment"
	"github.com/yoockh/jobtrack/internal/models"
	"github.com/yoockh/jobtrack/internal/services"
	"github.com/yoockh/jobtrack/internal/utils"
)

// maxBodyBytes leaves room for the other fields next to the largest inline CV.
var maxBodyBytes = int64(attachment.MaxEncodedLen() + 64<<10)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		models.UseJSONNames(v)
	}
}

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type ApplicationListResponse struct {
	UserID       string                  `json:"user_id"`
	Applications []models.JobApplication `json:"applications"`
}

func (h *ApplicationHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	apps, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ApplicationListResponse{UserID: userID, Applications: apps})
}

func (h *ApplicationHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	app, ok := bindApplication(c, "ApplicationHandler.Create")
	if !ok {
		return
	}

	created, err := h.svc.Create(c.Request.Context(), userID, app)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	const op = "ApplicationHandler.Update"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	app, ok := bindApplication(c, op)
	if !ok {
		return
	}

	id := c.Param("id")
	if app.ID == "" {
		app.ID = id
	}
	if app.ID != id {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "id in body does not match path", nil))
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), userID, app)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindApplication(c *gin.Context, op string) (models.JobApplication, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var app models.JobApplication
	if err := c.ShouldBindJSON(&app); err != nil {
		msg := "invalid request body"
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msg = models.ValidationError(verrs).Error()
		}
		writeError(c, utils.E(utils.CodeInvalidArgument, op, msg, err))
		return app, false
	}
	return app, true
}
