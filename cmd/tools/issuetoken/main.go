package main

import (
	"fmt"
	"log"
	"os"

	"hashids.local/internal/platform/auth"
	"hashids.local/internal/platform/config"
)

// 用 JWT_SECRET / JWT_ISSUER / JWT_TTL 签发管理接口用的 token
func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		log.Fatal("usage: go run ./cmd/tools/issuetoken <subject> [role]")
	}
	role := auth.RoleAdmin
	if len(os.Args) == 3 {
		role = os.Args[2]
	}

	cfg := config.Load()
	ts, err := auth.NewHS256Service(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		log.Fatal(err)
	}
	token, err := ts.Sign(os.Args[1], role)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
