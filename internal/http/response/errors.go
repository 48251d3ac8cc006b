package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/applyflow-backend/internal/platform/apierr"
)

var errInternal = errors.New("internal server error")

// Fail writes the envelope for err using its mapped status. The message of
// an unclassified failure is not exposed.
func Fail(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal", nil)
	}
	if err != nil {
		_ = c.Error(err)
	}
	if ae.Status == http.StatusInternalServerError {
		RespondError(c, ae.Status, ae.Code, errInternal)
		return
	}
	RespondError(c, ae.Status, ae.Code, ae)
}
