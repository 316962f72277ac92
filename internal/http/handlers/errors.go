package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coachprep/coachprep-backend/internal/http/response"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
)

// respondBindError folds request decoding failures into the validation arm of
// the taxonomy so the envelope and status come from one place.
func respondBindError(c *gin.Context, err error) {
	msg := "malformed request body"
	if err != nil {
		msg = err.Error()
	}
	response.RespondError(c, pkgerrors.Invalid("request", msg))
}

func respondServiceError(c *gin.Context, err error) {
	response.RespondError(c, err)
}
