package gee

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serve(e *Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouteParams(t *testing.T) {
	e := New()
	e.POST("/api/v1/profiles/:name/encode", func(ctx *Context) {
		ctx.String(http.StatusOK, "%s|%s", ctx.Param("name"), ctx.RoutePattern)
	})
	e.GET("/assets/*filepath", func(ctx *Context) {
		ctx.String(http.StatusOK, "%s", ctx.Param("filepath"))
	})

	w := serve(e, "POST", "/api/v1/profiles/orders/encode")
	if got := w.Body.String(); got != "orders|/api/v1/profiles/:name/encode" {
		t.Errorf("unexpected body %q", got)
	}
	w = serve(e, "GET", "/assets/css/site.css")
	if got := w.Body.String(); got != "css/site.css" {
		t.Errorf("unexpected body %q", got)
	}
}

// 静态段优先于参数段
func TestStaticRouteBeatsParam(t *testing.T) {
	e := New()
	e.GET("/profiles/:name", func(ctx *Context) { ctx.String(http.StatusOK, "param") })
	e.GET("/profiles/default", func(ctx *Context) { ctx.String(http.StatusOK, "static") })

	if got := serve(e, "GET", "/profiles/default").Body.String(); got != "static" {
		t.Errorf("expected static, got %q", got)
	}
	if got := serve(e, "GET", "/profiles/orders").Body.String(); got != "param" {
		t.Errorf("expected param, got %q", got)
	}
}

func TestNotFound(t *testing.T) {
	e := New()
	e.GET("/exists", func(ctx *Context) { ctx.String(http.StatusOK, "ok") })

	w := serve(e, "GET", "/not-exists")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	if !strings.Contains(w.Body.String(), `"message":"route not found"`) {
		t.Errorf("expected JSON error body, got %s", w.Body.String())
	}
}

func TestCustomNoRoute(t *testing.T) {
	e := New()
	e.NoRoute(func(ctx *Context) {
		ctx.JSON(http.StatusNotFound, H{"error": "page not found"})
	})

	w := serve(e, "GET", "/not-exists")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "page not found") {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

// 405 带 Allow 头
func TestMethodNotAllowed(t *testing.T) {
	e := New()
	e.GET("/test", func(ctx *Context) { ctx.String(http.StatusOK, "ok") })
	e.POST("/test", func(ctx *Context) { ctx.String(http.StatusOK, "ok") })

	w := serve(e, "DELETE", "/test")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
	if allow := w.Header().Get("Allow"); allow != "GET,POST" {
		t.Errorf("expected Allow GET,POST, got %q", allow)
	}
}

func TestCustomNoMethod(t *testing.T) {
	e := New()
	e.NoMethod(func(ctx *Context) {
		ctx.JSON(http.StatusMethodNotAllowed, H{"error": "method not allowed"})
	})
	e.GET("/test", func(ctx *Context) { ctx.String(http.StatusOK, "ok") })

	w := serve(e, "POST", "/test")
	if w.Code != http.StatusMethodNotAllowed || !strings.Contains(w.Body.String(), "method not allowed") {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

// 404/405 也经过全局中间件
func TestUnmatchedGoThroughMiddleware(t *testing.T) {
	for _, method := range []string{"GET", "POST"} {
		ran := false
		e := New()
		e.Use(func(ctx *Context) { ran = true; ctx.Next() })
		e.GET("/test", func(ctx *Context) { ctx.String(http.StatusOK, "ok") })

		target := "/not-exists"
		if method == "POST" {
			target = "/test"
		}
		serve(e, method, target)
		if !ran {
			t.Errorf("%s %s: middleware should run", method, target)
		}
	}
}

// 分组中间件只作用于分组前缀下的完整路径段
func TestGroupMiddlewareScope(t *testing.T) {
	var hits []string
	e := New()
	v1 := e.Group("/api/v1")
	v1.Use(func(ctx *Context) { hits = append(hits, ctx.Path); ctx.Next() })
	v1.GET("/ping", func(ctx *Context) { ctx.String(http.StatusOK, "pong") })
	e.GET("/api/v10/ping", func(ctx *Context) { ctx.String(http.StatusOK, "pong") })

	serve(e, "GET", "/api/v1/ping")
	serve(e, "GET", "/api/v10/ping")

	if len(hits) != 1 || hits[0] != "/api/v1/ping" {
		t.Errorf("expected middleware only on /api/v1/ping, got %v", hits)
	}
}

func TestAddRouteWithoutHandlerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New().GET("/x")
}
