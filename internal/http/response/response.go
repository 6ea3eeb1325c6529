package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/catalog-backend/internal/platform/apierr"
)

const contentTypeJSON = "application/json; charset=utf-8"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err using its apierr classification. Internal
// failures get a generic message so driver details stay in the logs.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, apierr.CodeInternal, nil)
	}
	_ = c.Error(err)
	var msgErr error = ae
	switch ae.Code {
	case apierr.CodeStoreUnavailable:
		msgErr = errStoreUnavailable
	case apierr.CodeSerializationFailed:
		msgErr = errSerialization
	case apierr.CodeInternal:
		msgErr = errInternal
	}
	RespondError(c, ae.Status, ae.Code, msgErr)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondJSONBytes writes an already encoded JSON body.
func RespondJSONBytes(c *gin.Context, status int, body []byte) {
	c.Data(status, contentTypeJSON, body)
}
