package gee

import (
	"sort"
	"strings"
)

type HandlerFunc func(*Context)

// router 每个 HTTP 方法一棵前缀树，处理链挂在叶子节点上
type router struct {
	roots map[string]*node
}

func newRouter() *router {
	return &router{roots: make(map[string]*node)}
}

// parsePattern 把路径拆成段，遇到 * 通配段即停止
func parsePattern(pattern string) []string {
	parts := make([]string, 0, 4)
	for _, item := range strings.Split(pattern, "/") {
		if item == "" {
			continue
		}
		parts = append(parts, item)
		if item[0] == '*' {
			break
		}
	}
	return parts
}

func (r *router) addRoute(method string, pattern string, handlers ...HandlerFunc) {
	if len(handlers) == 0 {
		panic("gee: route " + method + " " + pattern + " has no handler")
	}
	root, ok := r.roots[method]
	if !ok {
		root = &node{}
		r.roots[method] = root
	}
	root.insert(pattern, parsePattern(pattern), 0, append([]HandlerFunc(nil), handlers...))
}

func (r *router) getRoute(method string, path string) (*node, map[string]string) {
	root, ok := r.roots[method]
	if !ok {
		return nil, nil
	}
	searchParts := parsePattern(path)
	n := root.search(searchParts, 0)
	if n == nil {
		return nil, nil
	}

	params := make(map[string]string)
	for i, part := range parsePattern(n.pattern) {
		switch {
		case part[0] == ':':
			params[part[1:]] = searchParts[i]
		case part[0] == '*' && len(part) > 1:
			params[part[1:]] = strings.Join(searchParts[i:], "/")
		}
	}
	return n, params
}

func (r *router) handle(c *Context) {
	if n, params := r.getRoute(c.Method, c.Path); n != nil {
		c.Params = params
		c.RoutePattern = n.pattern
		c.handlers = append(c.handlers, n.handlers...)
	} else if allow := r.allowedMethods(c.Path); len(allow) > 0 {
		c.SetHeader("Allow", strings.Join(allow, ","))
		c.handlers = append(c.handlers, c.engine.noMethod...)
	} else {
		c.handlers = append(c.handlers, c.engine.noRoute...)
	}
	c.Next()
}

// allowedMethods 返回能匹配 path 的方法，用于 405 的 Allow 头
func (r *router) allowedMethods(path string) []string {
	var allow []string
	for method := range r.roots {
		if n, _ := r.getRoute(method, path); n != nil {
			allow = append(allow, method)
		}
	}
	sort.Strings(allow)
	return allow
}
