package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"hashids.local/gee"
	"hashids.local/internal/app/codec"
	"hashids.local/internal/platform/auth"
)

type CreateProfileRequest struct {
	Name      string `json:"name"`
	Kind      string `json:"kind,omitempty"`
	Salt      string `json:"salt,omitempty"`
	Alphabet  string `json:"alphabet,omitempty"`
	MinLength int    `json:"min_length,omitempty"`
}

type ProfilesResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}

type UsageItem struct {
	Op       string `json:"op"`
	Requests int64  `json:"requests"`
	Numbers  int64  `json:"numbers"`
}

type UsageResponse struct {
	Profile string      `json:"profile"`
	Since   time.Time   `json:"since"`
	Usage   []UsageItem `json:"usage"`
}

func NewCreateProfileHandler(svc *codec.Service) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		var req CreateProfileRequest
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
		id, _ := auth.GetIdentity(ctx.Req.Context())
		p, err := svc.CreateProfile(ctx.Req.Context(), codec.ProfileInput{
			Name:      req.Name,
			Kind:      req.Kind,
			Salt:      req.Salt,
			Alphabet:  req.Alphabet,
			MinLength: req.MinLength,
		}, id.Subject)
		if err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		e, err := svc.Info(ctx.Req.Context(), p.Name)
		if err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		ctx.JSON(http.StatusCreated, toProfileResponse(e, true))
	}
}

func NewListProfilesHandler(svc *codec.Service) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		limit := 100
		if v := ctx.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				ctx.AbortWithError(http.StatusBadRequest, "invalid limit")
				return
			}
			limit = n
		}
		entries, err := svc.ListProfiles(ctx.Req.Context(), limit)
		if err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		resp := ProfilesResponse{Profiles: make([]ProfileResponse, 0, len(entries))}
		for _, e := range entries {
			resp.Profiles = append(resp.Profiles, toProfileResponse(e, true))
		}
		ctx.JSON(http.StatusOK, resp)
	}
}

func NewDisableProfileHandler(svc *codec.Service) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		if err := svc.DisableProfile(ctx.Req.Context(), ctx.Param("name")); err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		ctx.Status(http.StatusNoContent)
	}
}

func NewUsageHandler(svc *codec.Service) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		window := 24 * time.Hour
		if v := ctx.Query("window"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				ctx.AbortWithError(http.StatusBadRequest, "invalid window")
				return
			}
			window = d
		}
		name := ctx.Param("name")
		since := time.Now().Add(-window).UTC()
		totals, err := svc.Usage(ctx.Req.Context(), name, window)
		if err != nil {
			abortWithDomainError(ctx, err)
			return
		}
		resp := UsageResponse{Profile: name, Since: since, Usage: make([]UsageItem, 0, len(totals))}
		for _, t := range totals {
			resp.Usage = append(resp.Usage, UsageItem{Op: t.Op, Requests: t.Requests, Numbers: t.Numbers})
		}
		ctx.JSON(http.StatusOK, resp)
	}
}
