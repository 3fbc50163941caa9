package gee

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	if rw.Status() != http.StatusOK || rw.Written() {
		t.Fatalf("unexpected initial state: status=%d written=%v", rw.Status(), rw.Written())
	}

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError) // 第二次被忽略
	rw.Write([]byte("hello"))
	rw.Write([]byte(" world"))

	if rw.Status() != http.StatusCreated || w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d / %d", rw.Status(), w.Code)
	}
	if rw.Size() != 11 {
		t.Errorf("expected size 11, got %d", rw.Size())
	}
	if rw.Unwrap() != w {
		t.Error("Unwrap should return the underlying writer")
	}
}

// 只 Write 不设置状态码时记录 200
func TestResponseWriterImplicitStatus(t *testing.T) {
	var status, size int
	e := New()
	e.Use(func(ctx *Context) {
		ctx.Next()
		status, size = ctx.Writer.Status(), ctx.Writer.Size()
	})
	e.GET("/test", func(ctx *Context) {
		ctx.Writer.Write([]byte("hello"))
	})

	serve(e, "GET", "/test")
	if status != http.StatusOK || size != 5 {
		t.Errorf("expected 200/5, got %d/%d", status, size)
	}
}
