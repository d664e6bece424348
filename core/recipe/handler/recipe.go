// Package handler exposes recipes over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	profileService "github.com/ncobase/cookscorner/core/profile/service"
	"github.com/ncobase/cookscorner/core/recipe/service"
	"github.com/ncobase/cookscorner/core/recipe/structs"
	"github.com/ncobase/cookscorner/ctxutil"
	"github.com/ncobase/cookscorner/ecode"
	"github.com/ncobase/cookscorner/helper"
	"github.com/ncobase/cookscorner/net/resp"
	"github.com/ncobase/cookscorner/paging"
)

var (
	recipeNotFound  = helper.On(service.ErrRecipeNotFound, resp.NotFound("Recipe is not found."))
	profileNotFound = helper.On(profileService.ErrProfileNotFound, resp.NotFound("User profile is not found."))
	notVerified     = helper.On(service.ErrNotVerified, resp.Unverified("User is not verified."))
)

// Handler serves the recipe endpoints.
type Handler struct {
	s *service.Service
}

// New creates a new recipe handler.
func New(s *service.Service) *Handler {
	return &Handler{s: s}
}

// RegisterRoutes mounts the recipe routes behind auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	g := r.Group("/recipes", auth)
	g.GET("", h.ListByCategory)
	g.POST("", h.Create)
	g.GET("/search", h.Search)
	g.GET("/saved", h.ListSaved)
	g.GET("/chef/:slug", h.ListByChef)
	g.GET("/:slug", h.Get)
	g.PUT("/:slug/like", h.ToggleLike)
	g.PUT("/:slug/save", h.ToggleSave)
}

// Get handles GET /recipes/:slug.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.s.Get(ctx, ctxutil.GetAccountID(ctx), c.Param("slug"))
	if err != nil {
		helper.Fail(c, err, "", recipeNotFound)
		return
	}
	resp.Success(c.Writer, rec)
}

// Create handles POST /recipes.
func (h *Handler) Create(c *gin.Context) {
	body := &structs.CreateRecipeBody{}
	if !helper.BindBody(c, body) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.s.Create(ctx, ctxutil.GetAccountID(ctx), body); err != nil {
		helper.Fail(c, err, "", notVerified, profileNotFound,
			helper.On(service.ErrIngredientsRequired, resp.InvalidParams("Required field", map[string]string{
				"Ingredients": "Required field",
			})),
			helper.On(service.ErrInvalidIngredients, resp.BadRequest("Invalid ingredients field.")),
		)
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, "Recipe is created.")
}

// ListByCategory handles GET /recipes?category=.
func (h *Handler) ListByCategory(c *gin.Context) {
	params, ok := helper.PagingParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	result, err := h.s.ListByCategory(ctx, ctxutil.GetAccountID(ctx), c.Query("category"), params)
	h.writeList(c, result, err)
}

// ListByChef handles GET /recipes/chef/:slug.
func (h *Handler) ListByChef(c *gin.Context) {
	params, ok := helper.PagingParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	result, err := h.s.ListByChef(ctx, ctxutil.GetAccountID(ctx), c.Param("slug"), params)
	h.writeList(c, result, err)
}

// ListSaved handles GET /recipes/saved.
func (h *Handler) ListSaved(c *gin.Context) {
	params, ok := helper.PagingParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	result, err := h.s.ListSaved(ctx, ctxutil.GetAccountID(ctx), params)
	h.writeList(c, result, err)
}

// Search handles GET /recipes/search?q=.
func (h *Handler) Search(c *gin.Context) {
	params, ok := helper.PagingParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	result, err := h.s.Search(ctx, ctxutil.GetAccountID(ctx), c.Query("q"), params)
	h.writeList(c, result, err)
}

func (h *Handler) writeList(c *gin.Context, result *paging.Result[*structs.Recipe], err error) {
	if err != nil {
		helper.Fail(c, err, "", profileNotFound,
			helper.On(paging.ErrInvalidCursor, resp.InvalidParams(ecode.Text(ecode.ParamErr))),
		)
		return
	}
	resp.Success(c.Writer, result)
}

// ToggleLike handles PUT /recipes/:slug/like.
func (h *Handler) ToggleLike(c *gin.Context) {
	h.toggle(c, h.s.ToggleLike)
}

// ToggleSave handles PUT /recipes/:slug/save.
func (h *Handler) ToggleSave(c *gin.Context) {
	h.toggle(c, h.s.ToggleSave)
}

func (h *Handler) toggle(c *gin.Context, fn func(ctx context.Context, accountID, slug string) (bool, error)) {
	ctx := c.Request.Context()
	if _, err := fn(ctx, ctxutil.GetAccountID(ctx), c.Param("slug")); err != nil {
		helper.Fail(c, err, "", notVerified, recipeNotFound, profileNotFound)
		return
	}
	resp.Success(c.Writer, "Success.")
}
