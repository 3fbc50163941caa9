package gee

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes JSON 请求体的上限
const MaxBodyBytes = 1 << 20

// ShouldBindJSON 只接受一个 JSON 值，拒绝未知字段
func (c *Context) ShouldBindJSON(dst any) error {
	body := http.MaxBytesReader(c.Writer, c.Req.Body, MaxBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON value")
	}
	return nil
}

// BindJSON 解析失败时写 400 并中止
func (c *Context) BindJSON(dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithError(http.StatusRequestEntityTooLarge, "request body too large")
			return err
		}
		c.AbortWithError(http.StatusBadRequest, "invalid json: "+err.Error())
		return err
	}
	return nil
}
