package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondAPIError maps err to its status and writes {error, code, details}.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, string(apierr.KindInternal), nil)
		return
	}
	c.JSON(StatusFor(ae), ErrorBody{Error: ae.Error(), Code: ae.Code, Details: ae.Details})
}

func StatusFor(ae *apierr.Error) int {
	if ae == nil || ae.Status == 0 {
		return http.StatusInternalServerError
	}
	return ae.Status
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
