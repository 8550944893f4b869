package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/http/response"
	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/services"
)

const maxPhotoBodyBytes = 25 << 20

type DesignHandler struct {
	log      *logger.Logger
	intake   services.IntakeService
	render   services.RenderService
	product  services.ProductService
	notifier services.NotifierService
	queries  services.DesignQueryService
}

func NewDesignHandler(
	log *logger.Logger,
	intake services.IntakeService,
	render services.RenderService,
	product services.ProductService,
	notifier services.NotifierService,
	queries services.DesignQueryService,
) *DesignHandler {
	return &DesignHandler{
		log:      log.With("handler", "DesignHandler"),
		intake:   intake,
		render:   render,
		product:  product,
		notifier: notifier,
		queries:  queries,
	}
}

type uploadRequest struct {
	Photo       string              `json:"photo"`
	Email       string              `json:"email"`
	SubjectName string              `json:"subject_name"`
	Responses   types.QuizResponses `json:"responses"`
	SessionID   string              `json:"session_id"`
}

func (r uploadRequest) input() services.IntakeInput {
	return services.IntakeInput{
		Photo:       r.Photo,
		Email:       r.Email,
		SubjectName: r.SubjectName,
		Responses:   r.Responses,
		SessionID:   r.SessionID,
	}
}

type designRefRequest struct {
	DesignID string `json:"design_id"`
	RecordID string `json:"record_id"`
}

func (r designRefRequest) ref() services.DesignRef {
	return services.DesignRef{DesignID: r.DesignID, RecordID: r.RecordID}
}

// POST /upload
func (h *DesignHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBodyBytes)
	var req uploadRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.intake.Intake(c.Request.Context(), req.input())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"design_id": d.DesignID,
		"record_id": d.ID,
		"photo_url": d.PhotoURL,
		"status":    d.Status,
	})
}

// POST /render
func (h *DesignHandler) Render(c *gin.Context) {
	var req designRefRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.render.Render(c.Request.Context(), req.ref())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"design_id":  d.DesignID,
		"record_id":  d.ID,
		"render_url": d.RenderURL,
		"status":     d.Status,
	})
}

// POST /render-variants
func (h *DesignHandler) RenderVariants(c *gin.Context) {
	var req designRefRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.render.RenderVariants(c.Request.Context(), req.ref())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"design_id": res.Design.DesignID,
		"record_id": res.Design.ID,
		"variants":  res.Variants,
	})
}

// POST /create-product
func (h *DesignHandler) CreateProduct(c *gin.Context) {
	var req designRefRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.product.CreateProduct(c.Request.Context(), req.ref())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"design_id":    d.DesignID,
		"record_id":    d.ID,
		"product_id":   d.ProductID,
		"product_url":  d.ProductURL,
		"checkout_url": d.CheckoutURL,
		"status":       d.Status,
	})
}

// POST /send-email
func (h *DesignHandler) SendEmail(c *gin.Context) {
	var req designRefRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.notifier.SendReadyEmail(c.Request.Context(), req.ref())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"design_id":        d.DesignID,
		"record_id":        d.ID,
		"email_sent":       d.EmailSent,
		"email_message_id": d.EmailMessageID,
		"status":           d.Status,
	})
}

// GET /designs?email=
func (h *DesignHandler) ListByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	out, err := h.queries.ListByEmail(c.Request.Context(), email)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"email":   email,
		"designs": out,
		"count":   len(out),
	})
}

// GET /designs/:id
func (h *DesignHandler) Get(c *gin.Context) {
	d, err := h.queries.Get(c.Request.Context(), services.DesignRef{DesignID: c.Param("id")})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"design": d})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondAPIError(c, apierr.Validation("invalid request body: %v", err))
		return false
	}
	return true
}
