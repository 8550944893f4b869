package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/taiyaki-backend/internal/http/middleware"
	"github.com/yungbote/taiyaki-backend/internal/http/response"
	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/services"
)

type PipelineHandler struct {
	log         *logger.Logger
	fulfillment services.FulfillmentService
}

func NewPipelineHandler(log *logger.Logger, fulfillment services.FulfillmentService) *PipelineHandler {
	return &PipelineHandler{
		log:         log.With("handler", "PipelineHandler"),
		fulfillment: fulfillment,
	}
}

type processCompleteFailure struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   string `json:"details,omitempty"`
	Step      string `json:"step,omitempty"`
	DesignID  string `json:"design_id,omitempty"`
	RecordID  string `json:"record_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// POST /process-complete
func (h *PipelineHandler) ProcessComplete(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBodyBytes)
	var req uploadRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.fulfillment.Run(c.Request.Context(), req.input())
	if err != nil {
		ae := apierr.From(err)
		body := processCompleteFailure{Error: ae.Error(), Code: ae.Code, Details: ae.Details}
		if fe, ok := services.AsFulfillmentError(err); ok {
			middleware.SetSessionID(c, fe.SessionID)
			body.Step = fe.Step
			body.DesignID = fe.DesignID
			body.RecordID = fe.RecordID
			body.SessionID = fe.SessionID
			if body.Details == "" {
				body.Details = fe.Error()
			}
		}
		c.JSON(response.StatusFor(ae), body)
		return
	}

	middleware.SetSessionID(c, res.SessionID)
	d := res.Design
	response.RespondOK(c, gin.H{
		"success":      true,
		"session_id":   res.SessionID,
		"design_id":    d.DesignID,
		"record_id":    d.ID,
		"photo_url":    d.PhotoURL,
		"render_url":   d.RenderURL,
		"product_id":   d.ProductID,
		"product_url":  d.ProductURL,
		"checkout_url": d.CheckoutURL,
		"email_sent":   d.EmailSent,
		"status":       d.Status,
	})
}
