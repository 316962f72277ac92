package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachprep/coachprep-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
)

// APIError is the wire form of a failed request. Code carries the error
// taxonomy value so clients branch on it instead of parsing messages;
// RequestID ties a support report back to the request log line.
type APIError struct {
	Message   string         `json:"message"`
	Code      pkgerrors.Code `json:"code"`
	RequestID string         `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

var statusByCode = map[pkgerrors.Code]int{
	pkgerrors.CodeValidation:   http.StatusBadRequest,
	pkgerrors.CodeNotFound:     http.StatusNotFound,
	pkgerrors.CodeUnauthorized: http.StatusUnauthorized,
	pkgerrors.CodeConflict:     http.StatusConflict,
	pkgerrors.CodeRetryable:    http.StatusInternalServerError,
	pkgerrors.CodeInternal:     http.StatusInternalServerError,
}

// StatusOf maps a taxonomy code onto its HTTP status.
func StatusOf(code pkgerrors.Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RespondError writes the envelope for err, deriving status and wire code
// from the taxonomy. Uncoded errors fall through to internal.
func RespondError(c *gin.Context, err error) {
	code := pkgerrors.CodeOf(err)
	c.JSON(StatusOf(code), envelope(c, code, err))
}

// AbortError is RespondError for middleware: it also stops the handler chain.
func AbortError(c *gin.Context, err error) {
	code := pkgerrors.CodeOf(err)
	c.AbortWithStatusJSON(StatusOf(code), envelope(c, code, err))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// envelope sanitizes the message per code: internal causes stay server-side,
// retryable failures tell the client the retry is safe.
func envelope(c *gin.Context, code pkgerrors.Code, err error) ErrorEnvelope {
	var msg string
	switch code {
	case pkgerrors.CodeInternal:
		msg = "internal error"
	case pkgerrors.CodeRetryable:
		msg = "temporary failure, the request is safe to retry"
	default:
		msg = "unknown error"
		if err != nil {
			msg = err.Error()
		}
	}
	var requestID string
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		requestID = td.RequestID
	}
	return ErrorEnvelope{Error: APIError{
		Message:   msg,
		Code:      code,
		RequestID: requestID,
	}}
}
