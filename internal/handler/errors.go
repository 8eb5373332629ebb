package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vendra/licensing-api/internal/billing"
	"github.com/vendra/licensing-api/internal/utils"
)

// serviceError translates service-layer errors into the response envelope.
// fallback is the message used for unclassified errors.
func serviceError(c *gin.Context, err error, fallback string) {
	var invalid *billing.ErrInvalidTransition
	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, 404, "NOT_FOUND", err.Error())
	case errors.Is(err, utils.ErrValidation):
		utils.Error(c, 400, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, utils.ErrEmailTaken):
		utils.Error(c, 409, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, utils.ErrReferenced):
		utils.Error(c, 409, "IN_USE", err.Error())
	case errors.As(err, &invalid):
		utils.Error(c, 409, "INVALID_TRANSITION", err.Error())
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", fallback)
	}
}

// pathID parses the :id path parameter. It writes the 400 response itself
// and reports whether the caller should continue.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
