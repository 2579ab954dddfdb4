package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError renders the error page. User readable errors keep their
// message and status; everything else becomes a generic failure note for the
// given action and the original error only goes to the log.
func RespondError(c *gin.Context, err error, action string) {
	var ue *UserReadableError
	if errors.As(err, &ue) {
		c.HTML(ue.StatusCode, "error.tmpl", gin.H{
			"Error": ue.Msg,
		})
	} else {
		c.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{
			"Error": fmt.Sprintf("Failed to %s, please try again later.", action),
		})
		zap.L().Error("request failed", zap.String("action", action), zap.Error(err))
	}
}
