package httpapi

import (
	"net/http"
	"time"

	"hashids.local/gee"
	"hashids.local/internal/app/codec"
)

type EncodeRequest struct {
	Numbers []uint64 `json:"numbers"`
}

type HashResponse struct {
	Profile string `json:"profile"`
	Hash    string `json:"hash"`
}

type DecodeRequest struct {
	Hash   string `json:"hash"`
	Strict bool   `json:"strict,omitempty"`
}

type NumbersResponse struct {
	Profile string   `json:"profile"`
	Numbers []uint64 `json:"numbers"`
}

type EncodeHexRequest struct {
	Hex string `json:"hex"`
}

type DecodeHexRequest struct {
	Hash string `json:"hash"`
}

type HexResponse struct {
	Profile string `json:"profile"`
	Hex     string `json:"hex"`
}

// ProfileResponse 公开信息，不包含 salt
type ProfileResponse struct {
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Alphabet    string     `json:"alphabet"`
	MinLength   int        `json:"min_length"`
	Fingerprint string     `json:"fingerprint"`
	Disabled    bool       `json:"disabled,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func toProfileResponse(e *codec.Entry, withOwner bool) ProfileResponse {
	p := e.Profile
	resp := ProfileResponse{
		Name:        p.Name,
		Kind:        string(p.Kind),
		Alphabet:    p.Alphabet,
		MinLength:   p.MinLength,
		Fingerprint: e.FingerprintHex(),
		Disabled:    p.Disabled,
	}
	if !p.CreatedAt.IsZero() {
		at := p.CreatedAt
		resp.CreatedAt = &at
	}
	if withOwner {
		resp.CreatedBy = p.CreatedBy
	}
	return resp
}

func NewEncodeHandler(svc *codec.Service) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		var req EncodeRequest
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
		name := ctx.Param("name")
		hash, err := svc.Encode(ctx.Req.Context(), name, req.Numbers)
		if err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, HashResponse{Profile: name, Hash: hash})
	}
}

func NewDecodeHandler(svc *codec.Service) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		var req DecodeRequest
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
		name := ctx.Param("name")
		numbers, err := svc.Decode(ctx.Req.Context(), name, req.Hash, req.Strict)
		if err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, NumbersResponse{Profile: name, Numbers: numbers})
	}
}

func NewEncodeHexHandler(svc *codec.Service) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		var req EncodeHexRequest
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
		name := ctx.Param("name")
		hash, err := svc.EncodeHex(ctx.Req.Context(), name, req.Hex)
		if err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, HashResponse{Profile: name, Hash: hash})
	}
}

func NewDecodeHexHandler(svc *codec.Service) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		var req DecodeHexRequest
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
		name := ctx.Param("name")
		hex, err := svc.DecodeHex(ctx.Req.Context(), name, req.Hash)
		if err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, HexResponse{Profile: name, Hex: hex})
	}
}

func NewProfileInfoHandler(svc *codec.Service) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		e, err := svc.Info(ctx.Req.Context(), ctx.Param("name"))
		if err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, toProfileResponse(e, false))
	}
}
