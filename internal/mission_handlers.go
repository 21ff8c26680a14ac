package agency

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/4oBuko/spy-cat-agency-records/internal/models"
)

func (s *Server) handleAddMission(ctx *gin.Context) {
	var mission models.Mission
	if !s.bindJSON(ctx, &mission) {
		return
	}

	savedMission, err := s.missionService.Add(ctx, mission)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, savedMission)
}

func (s *Server) handleGetMission(ctx *gin.Context) {
	id, ok := s.pathId(ctx, "id", "mission")
	if !ok {
		return
	}

	mission, err := s.missionService.GetById(ctx, id)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, mission)
}

func (s *Server) handleGetAllMissions(ctx *gin.Context) {
	missions, err := s.missionService.GetAll(ctx)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, missions)
}

func (s *Server) handleAssignMission(ctx *gin.Context) {
	missionId, ok := s.pathId(ctx, "id", "mission")
	if !ok {
		return
	}
	catId, ok := s.pathId(ctx, "catId", "cat")
	if !ok {
		return
	}

	mission, err := s.missionService.Assign(ctx, missionId, catId)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, mission)
}

func (s *Server) handleCompleteMission(ctx *gin.Context) {
	missionId, ok := s.pathId(ctx, "id", "mission")
	if !ok {
		return
	}

	mission, err := s.missionService.Complete(ctx, missionId)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, mission)
}

func (s *Server) handleDeleteMission(ctx *gin.Context) {
	missionId, ok := s.pathId(ctx, "id", "mission")
	if !ok {
		return
	}

	if err := s.missionService.Delete(ctx, missionId); err != nil {
		s.respondError(ctx, err)
		return
	}
	respondDeleted(ctx)
}
