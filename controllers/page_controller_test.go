package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/inkpress/inkpress/services"
	"github.com/inkpress/inkpress/store"
)

func newPageRouter(t *testing.T) (*gin.Engine, *services.PostService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := services.NewPostService(store.NewMemoryPostStore())
	pc := NewPageController(svc)

	r := gin.New()
	r.LoadHTMLGlob("../templates/*.tmpl")
	r.GET("/", pc.Home)
	r.GET("/posts/:slug", pc.Show)
	return r, svc
}

func TestShowSanitizesContentAtRender(t *testing.T) {
	r, svc := newPageRouter(t)

	content := `<p>Safe paragraph</p><script>alert("xss")</script>`
	post, err := svc.Create("Rendered Post", content)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// The API stores and returns the content verbatim...
	stored, err := svc.GetBySlug(post.Slug)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Content != content {
		t.Errorf("content modified on write: %q", stored.Content)
	}

	// ...while the rendered page strips what the policy forbids.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/"+post.Slug, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "<script>") {
		t.Error("rendered page contains script tag")
	}
	if !strings.Contains(body, "Safe paragraph") {
		t.Error("rendered page lost safe content")
	}
	if !strings.Contains(body, "Rendered Post") {
		t.Error("rendered page missing title")
	}
}

func TestHomeListsPosts(t *testing.T) {
	r, svc := newPageRouter(t)

	if _, err := svc.Create("Visible On Home", "<p>Hi</p>"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Visible On Home") {
		t.Error("home page missing post title")
	}
}

func TestShowUnknownSlugRenders404(t *testing.T) {
	r, _ := newPageRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
