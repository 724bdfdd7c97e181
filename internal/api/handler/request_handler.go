package handler

import (
	"time"

	"shinypull/internal/api/dto"
	"shinypull/internal/pkg/ratelimit"
	"shinypull/internal/pkg/response"
	"shinypull/internal/pkg/util"
	"shinypull/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestHandler exposes the public creator-onboarding request endpoint.
type RequestHandler struct {
	requestSvc service.RequestService
	limiter    ratelimit.Limiter
	rateMax    int
	rateWindow time.Duration
}

func NewRequestHandler(requestSvc service.RequestService, limiter ratelimit.Limiter, rateMax int, rateWindow time.Duration) *RequestHandler {
	if rateMax <= 0 {
		rateMax = 5
	}
	if rateWindow <= 0 {
		rateWindow = time.Hour
	}
	return &RequestHandler{
		requestSvc: requestSvc,
		limiter:    limiter,
		rateMax:    rateMax,
		rateWindow: rateWindow,
	}
}

func (s *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	result, err := s.limiter.Check(c.Request.Context(), c.ClientIP(), s.rateMax, s.rateWindow)
	if err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	if !result.Allowed {
		response.Error(c, service.ErrRateLimited)
		return
	}

	request, err := s.requestSvc.Submit(c.Request.Context(), req.Platform, req.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, request)
}
