package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkpress/inkpress/services"
	"github.com/inkpress/inkpress/utils"
)

const (
	cacheKeyPostList   = "cache:posts:list"
	cacheKeyPostPrefix = "cache:post:"
)

// PostController adapts the REST surface onto the post service. It maps the
// service error taxonomy to status codes and manages the Redis response
// cache for the two read endpoints.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListPosts returns all posts, newest created first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(cacheKeyPostList); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts, err := p.posts.ListAll()
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.CacheSetJSON(cacheKeyPostList, posts)
	ctx.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by slug.
func (p *PostController) GetPost(ctx *gin.Context) {
	slug := ctx.Param("slug")

	if b, ok := utils.CacheGetBytes(cacheKeyPostPrefix + slug); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	post, err := p.posts.GetBySlug(slug)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.CacheSetJSON(cacheKeyPostPrefix+slug, post)
	ctx.JSON(http.StatusOK, post)
}

// CreatePost creates a post from title and content; the slug is derived.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	post, err := p.posts.Create(req.Title, req.Content)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.CacheDelete(cacheKeyPostList)
	ctx.JSON(http.StatusCreated, post)
}

// UpdatePost replaces title and content of the post with the given slug. The
// slug changes only when the title change derives a different base.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	slug := ctx.Param("slug")

	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	post, err := p.posts.Update(slug, req.Title, req.Content)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.CacheDelete(cacheKeyPostList, cacheKeyPostPrefix+slug, cacheKeyPostPrefix+post.Slug)
	ctx.JSON(http.StatusOK, post)
}

// DeletePost removes the post with the given slug.
func (p *PostController) DeletePost(ctx *gin.Context) {
	slug := ctx.Param("slug")

	if err := p.posts.Delete(slug); err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.CacheDelete(cacheKeyPostList, cacheKeyPostPrefix+slug)
	ctx.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}

// writeServiceError maps the service error taxonomy onto HTTP status codes.
// Storage errors are logged here and surfaced as an opaque 500.
func writeServiceError(ctx *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.Error(ctx, http.StatusBadRequest, verr.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, "post not found")
	case errors.Is(err, services.ErrConflict):
		utils.Error(ctx, http.StatusConflict, "slug conflict, please retry")
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("post operation failed: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}
