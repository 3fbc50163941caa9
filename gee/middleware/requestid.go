package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"hashids.local/gee"
)

const requestIDHeader = "X-Request-ID"

// maxRequestIDLen 客户端传入的请求 ID 超过这个长度就重新生成
const maxRequestIDLen = 64

// ReqID 透传或生成 X-Request-ID，并写回响应头
func ReqID() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		id := ctx.Req.Header.Get(requestIDHeader)
		if !validRequestID(id) {
			id = GenerateReqID()
			if id == "" {
				id = strconv.FormatInt(time.Now().UnixNano(), 10)
			}
			ctx.Req.Header.Set(requestIDHeader, id)
		}
		ctx.SetHeader(requestIDHeader, id)

		ctx.Next()
	}
}

// GenerateReqID 32 个十六进制字符
func GenerateReqID() string {
	src := make([]byte, 16)
	if _, err := rand.Read(src); err != nil {
		return ""
	}
	return hex.EncodeToString(src)
}

// validRequestID 只接受可打印 ASCII，避免把控制字符带进日志
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
