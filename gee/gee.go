package gee

import (
	"log/slog"
	"net/http"
	"strings"
)

type Engine struct {
	*RouterGroup
	router   *router
	groups   []*RouterGroup
	noMethod []HandlerFunc
	noRoute  []HandlerFunc
}

type RouterGroup struct {
	prefix      string
	middlewares []HandlerFunc
	engine      *Engine
}

func New() *Engine {
	engine := &Engine{router: newRouter()}
	engine.noRoute = []HandlerFunc{func(ctx *Context) {
		ctx.AbortWithError(http.StatusNotFound, "route not found")
	}}
	engine.noMethod = []HandlerFunc{func(ctx *Context) {
		ctx.AbortWithError(http.StatusMethodNotAllowed, "method not allowed")
	}}
	engine.RouterGroup = &RouterGroup{engine: engine}
	engine.groups = []*RouterGroup{engine.RouterGroup}
	return engine
}

// NoRoute 替换 404 的处理链
func (e *Engine) NoRoute(handlers ...HandlerFunc) {
	e.noRoute = handlers
}

// NoMethod 替换 405 的处理链
func (e *Engine) NoMethod(handlers ...HandlerFunc) {
	e.noMethod = handlers
}

// Group 以当前分组的前缀为基础创建子分组，子分组继承父分组的中间件。
func (group *RouterGroup) Group(prefix string) *RouterGroup {
	child := &RouterGroup{
		prefix: group.prefix + prefix,
		engine: group.engine,
	}
	group.engine.groups = append(group.engine.groups, child)
	return child
}

// Use 添加中间件
func (group *RouterGroup) Use(middlewares ...HandlerFunc) {
	group.middlewares = append(group.middlewares, middlewares...)
}

// Handle 在分组下注册任意方法的路由
func (group *RouterGroup) Handle(method, pattern string, handlers ...HandlerFunc) {
	full := group.prefix + pattern
	slog.Debug("route registered", "method", method, "pattern", full)
	group.engine.router.addRoute(method, full, handlers...)
}

func (group *RouterGroup) GET(pattern string, handlers ...HandlerFunc) {
	group.Handle(http.MethodGet, pattern, handlers...)
}

func (group *RouterGroup) POST(pattern string, handlers ...HandlerFunc) {
	group.Handle(http.MethodPost, pattern, handlers...)
}

func (group *RouterGroup) DELETE(pattern string, handlers ...HandlerFunc) {
	group.Handle(http.MethodDelete, pattern, handlers...)
}

// ServeHTTP implements http.Handler.
func (e *Engine) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var middlewares []HandlerFunc
	for _, group := range e.groups {
		if hasPathPrefix(req.URL.Path, group.prefix) {
			middlewares = append(middlewares, group.middlewares...)
		}
	}
	ctx := newContext(w, req)
	ctx.handlers = middlewares
	ctx.engine = e
	e.router.handle(ctx)
}

// hasPathPrefix 按路径段匹配前缀，/api/v1 不会匹配 /api/v10
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || prefix == "" || strings.HasSuffix(prefix, "/") || path[len(prefix)] == '/'
}
