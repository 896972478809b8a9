package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camivel/cuentastrack/internal/server/http/dto"
)

// DirectoryHandler exposes the user directory.
type DirectoryHandler struct {
	facade DirectoryFacade
}

// NewDirectoryHandler creates DirectoryHandler instance.
func NewDirectoryHandler(facade DirectoryFacade) *DirectoryHandler {
	return &DirectoryHandler{facade: facade}
}

// List handles GET /api/users.
func (h *DirectoryHandler) List(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	users, err := h.facade.Users(c.Request.Context(), identity)
	if err != nil {
		writeError(c, err)
		return
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, dto.NewUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, result)
}
