package agency

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/4oBuko/spy-cat-agency-records/internal/models"
)

func (s *Server) handleAddCat(ctx *gin.Context) {
	var cat models.Cat
	if !s.bindJSON(ctx, &cat) {
		return
	}

	newCat, err := s.catService.Add(ctx, cat)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newCat)
}

func (s *Server) handleGetCat(ctx *gin.Context) {
	id, ok := s.pathId(ctx, "id", "cat")
	if !ok {
		return
	}

	cat, err := s.catService.GetById(ctx, id)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cat)
}

func (s *Server) handleGetAllCats(ctx *gin.Context) {
	cats, err := s.catService.GetAll(ctx)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cats)
}

func (s *Server) handleUpdateSalary(ctx *gin.Context) {
	id, ok := s.pathId(ctx, "id", "cat")
	if !ok {
		return
	}
	var update models.CatUpdate
	if !s.bindJSON(ctx, &update) {
		return
	}

	updatedCat, err := s.catService.UpdateSalary(ctx, id, update)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, updatedCat)
}

func (s *Server) handleDeleteCat(ctx *gin.Context) {
	id, ok := s.pathId(ctx, "id", "cat")
	if !ok {
		return
	}

	if err := s.catService.DeleteById(ctx, id); err != nil {
		s.respondError(ctx, err)
		return
	}
	respondDeleted(ctx)
}
