package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitcheck/internal/analyze"
	"fitcheck/internal/logger"
)

type analyzeHandler struct {
	log *logger.Logger
	svc *analyze.Service
}

func newAnalyzeHandler(log *logger.Logger, svc *analyze.Service) *analyzeHandler {
	return &analyzeHandler{log: log.With("handler", "analyze"), svc: svc}
}

// POST /api/analyze
func (h *analyzeHandler) Analyze(c *gin.Context) {
	var req analyze.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	resp, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, analyze.ErrImageRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("analysis failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
