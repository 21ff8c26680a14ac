package agency

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/4oBuko/spy-cat-agency-records/internal/myerrors"
)

var statusByKind = map[myerrors.Kind]int{
	myerrors.KindNotFound:           http.StatusNotFound,
	myerrors.KindValidation:         http.StatusBadRequest,
	myerrors.KindConflict:           http.StatusConflict,
	myerrors.KindInvalidState:       http.StatusBadRequest,
	myerrors.KindServiceUnavailable: http.StatusServiceUnavailable,
}

func (s *Server) respondError(ctx *gin.Context, err error) {
	var reqErr *myerrors.RequestError
	if errors.As(err, &reqErr) {
		status, ok := statusByKind[reqErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		if reqErr.Err != nil {
			s.logger.Warn("request failed",
				zap.String("kind", string(reqErr.Kind)),
				zap.String("request_id", ctx.GetString(requestIDKey)),
				zap.Error(reqErr.Err))
		}
		ctx.JSON(status, gin.H{
			"error":   reqErr.Kind,
			"message": reqErr.Message,
		})
		return
	}

	s.logger.Error("unexpected error",
		zap.String("path", ctx.FullPath()),
		zap.String("request_id", ctx.GetString(requestIDKey)),
		zap.Error(err))
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "internal server error",
	})
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func (s *Server) bindJSON(ctx *gin.Context, dst any) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		s.respondError(ctx, myerrors.Validation("%s", err.Error()))
		return false
	}
	return true
}

// pathId parses a numeric path parameter. Anything else is answered with
// 404 since no entity can have such an id.
func (s *Server) pathId(ctx *gin.Context, param, entity string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil {
		s.respondError(ctx, myerrors.NotFound("%s not found. Use number as id!", entity))
		return 0, false
	}
	return id, true
}

func respondDeleted(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
