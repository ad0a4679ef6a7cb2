package controllers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/services"
	"github.com/inkpress/inkpress/utils"
)

// PageController serves the public reading site. Stored content is HTML and
// is passed through the sanitizer here, at render time, never on write.
type PageController struct {
	posts *services.PostService
}

func NewPageController(posts *services.PostService) *PageController {
	return &PageController{posts: posts}
}

type postPage struct {
	Post    *models.Post
	Content template.HTML
}

// Home renders the post list, newest first.
func (p *PageController) Home(ctx *gin.Context) {
	posts, err := p.posts.ListAll()
	if err != nil {
		ctx.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{
			"Message": "Something went wrong",
		})
		return
	}
	ctx.HTML(http.StatusOK, "home.tmpl", gin.H{"Posts": posts})
}

// Show renders a single post with sanitized content.
func (p *PageController) Show(ctx *gin.Context) {
	slug := ctx.Param("slug")
	post, err := p.posts.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			p.NotFound(ctx)
			return
		}
		ctx.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{
			"Message": "Something went wrong",
		})
		return
	}

	ctx.HTML(http.StatusOK, "post.tmpl", postPage{
		Post:    post,
		Content: template.HTML(utils.Sanitize(post.Content)),
	})
}

// NotFound renders the site 404 page.
func (p *PageController) NotFound(ctx *gin.Context) {
	ctx.HTML(http.StatusNotFound, "error.tmpl", gin.H{
		"Message": "Page not found",
	})
}
