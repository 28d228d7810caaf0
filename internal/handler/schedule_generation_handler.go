package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/horarios/sgh-api/internal/dto"
	"github.com/horarios/sgh-api/internal/models"
	appErrors "github.com/horarios/sgh-api/pkg/errors"
	"github.com/horarios/sgh-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest, executedBy string) (*dto.GenerationResult, error)
	History(ctx context.Context, query dto.HistoryQuery) ([]models.GenerationRun, *models.Pagination, error)
}

// ScheduleGenerationHandler exposes the automatic generator and its run history.
type ScheduleGenerationHandler struct {
	service scheduleGenerator
}

// NewScheduleGenerationHandler constructs the handler.
func NewScheduleGenerationHandler(svc scheduleGenerator) *ScheduleGenerationHandler {
	return &ScheduleGenerationHandler{service: svc}
}

// Generate godoc
// @Summary Generate schedules for every course without one
// @Description Places each unscheduled course in the first free one-hour slot of its teacher within the period. With dryRun only classifies the courses. A run that fails after it started is returned with status FAILED.
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GenerateScheduleRequest true "Generation period and flags"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleGenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req, claims.Actor())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// History godoc
// @Summary List generation runs
// @Description Runs ordered by execution time, newest first. Per-course failures are not retained.
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/history [get]
func (h *ScheduleGenerationHandler) History(c *gin.Context) {
	var query dto.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid history query"))
		return
	}
	runs, pagination, err := h.service.History(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, pagination)
}
