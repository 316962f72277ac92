package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coachprep/coachprep-backend/internal/http/response"
	"github.com/coachprep/coachprep-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// requestUserID pulls the authenticated identity attached by RequireAuth.
func requestUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		respondServiceError(c, pkgerrors.Unauthorized("handlers", "no authenticated user"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// GET /user
func (uh *UserHandler) GetMe(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	me, err := uh.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": me})
}

// GET /user/avatar
func (uh *UserHandler) GetAvatar(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}
	png, err := uh.userService.GetAvatar(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
