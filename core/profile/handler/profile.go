// Package handler exposes profiles and follow relations over HTTP.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cookscorner/core/profile/service"
	"github.com/ncobase/cookscorner/core/profile/structs"
	"github.com/ncobase/cookscorner/ctxutil"
	"github.com/ncobase/cookscorner/helper"
	"github.com/ncobase/cookscorner/net/resp"
	"github.com/ncobase/cookscorner/paging"
)

const msgProfileNotFound = "User profile is not found."

var notFound = helper.On(service.ErrProfileNotFound, resp.NotFound(msgProfileNotFound))

// Handler serves the profile endpoints.
type Handler struct {
	s *service.Service
}

// New creates a new profile handler.
func New(s *service.Service) *Handler {
	return &Handler{s: s}
}

// RegisterRoutes mounts the profile routes behind auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	g := r.Group("/profile", auth)
	g.GET("", h.Mine)
	g.PUT("", h.UpdateMine)
	g.GET("/:slug", h.Get)
	g.PUT("/:slug/follow", h.ToggleFollow)
	g.GET("/:slug/followers", h.Followers)
	g.GET("/:slug/following", h.Following)
}

// Mine handles GET /profile.
func (h *Handler) Mine(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.s.ViewMine(ctx, ctxutil.GetAccountID(ctx))
	if err != nil {
		helper.Fail(c, err, "", notFound)
		return
	}
	resp.Success(c.Writer, view)
}

// UpdateMine handles PUT /profile.
func (h *Handler) UpdateMine(c *gin.Context) {
	body := &structs.UpdateProfileBody{}
	if !helper.BindBody(c, body) {
		return
	}

	ctx := c.Request.Context()
	view, err := h.s.UpdateMine(ctx, ctxutil.GetAccountID(ctx), body)
	if err != nil {
		helper.Fail(c, err, "", notFound,
			helper.On(service.ErrInvalidUsername, resp.InvalidParams("Invalid username.", map[string]string{
				"username": "Username must be between 1 and 255 characters.",
			})),
		)
		return
	}
	resp.Success(c.Writer, view)
}

// Get handles GET /profile/:slug.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.s.View(ctx, c.Param("slug"), ctxutil.GetAccountID(ctx))
	if err != nil {
		helper.Fail(c, err, "", notFound)
		return
	}
	resp.Success(c.Writer, view)
}

// ToggleFollow handles PUT /profile/:slug/follow.
func (h *Handler) ToggleFollow(c *gin.Context) {
	ctx := c.Request.Context()
	followed, err := h.s.ToggleFollow(ctx, ctxutil.GetAccountID(ctx), c.Param("slug"))
	if err != nil {
		helper.Fail(c, err, "", notFound,
			helper.On(service.ErrCannotFollowSelf, resp.BadRequest("You can't follow yourself.")),
		)
		return
	}
	resp.Success(c.Writer, map[string]bool{"is_followed": followed})
}

// Followers handles GET /profile/:slug/followers.
func (h *Handler) Followers(c *gin.Context) {
	h.list(c, h.s.ListFollowers)
}

// Following handles GET /profile/:slug/following.
func (h *Handler) Following(c *gin.Context) {
	h.list(c, h.s.ListFollowing)
}

type lister func(ctx context.Context, slug string, params paging.Params) (*paging.Result[*structs.ProfileSummary], error)

func (h *Handler) list(c *gin.Context, list lister) {
	params, ok := helper.PagingParams(c)
	if !ok {
		return
	}
	result, err := list(c.Request.Context(), c.Param("slug"), params)
	if err != nil {
		helper.Fail(c, err, "", notFound)
		return
	}
	resp.Success(c.Writer, result)
}
