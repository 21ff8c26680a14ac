package agency

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/4oBuko/spy-cat-agency-records/internal/models"
)

func (s *Server) handleAddTarget(ctx *gin.Context) {
	var target models.Target
	if !s.bindJSON(ctx, &target) {
		return
	}

	newTarget, err := s.targetService.Add(ctx, target)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newTarget)
}

func (s *Server) handleGetTarget(ctx *gin.Context) {
	id, ok := s.pathId(ctx, "id", "target")
	if !ok {
		return
	}

	target, err := s.targetService.GetById(ctx, id)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, target)
}

func (s *Server) handleGetAllTargets(ctx *gin.Context) {
	targets, err := s.targetService.GetAll(ctx)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, targets)
}

func (s *Server) handleUpdateNotes(ctx *gin.Context) {
	id, ok := s.pathId(ctx, "id", "target")
	if !ok {
		return
	}
	var update models.TargetUpdate
	if !s.bindJSON(ctx, &update) {
		return
	}

	target, err := s.targetService.UpdateNotes(ctx, id, update)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, target)
}

func (s *Server) handleCompleteTarget(ctx *gin.Context) {
	id, ok := s.pathId(ctx, "id", "target")
	if !ok {
		return
	}

	target, err := s.targetService.Complete(ctx, id)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, target)
}

func (s *Server) handleDeleteTarget(ctx *gin.Context) {
	id, ok := s.pathId(ctx, "id", "target")
	if !ok {
		return
	}

	if err := s.targetService.Delete(ctx, id); err != nil {
		s.respondError(ctx, err)
		return
	}
	respondDeleted(ctx)
}
