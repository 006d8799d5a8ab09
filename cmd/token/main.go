package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"catalog-stock/internal/config"
	"catalog-stock/internal/logger"
	"catalog-stock/internal/middleware"

	"go.uber.org/zap"
)

// token prints a signed bearer token for operating the catalog API, e.g. to run stock
// adjustments from a script. It signs with JWT_SECRET from the same config the API uses.
func main() {
	subject := flag.String("subject", "", "token subject, usually the operator's login")
	role := flag.String("role", middleware.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if *subject == "" {
		log.Fatal("Subject is required")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is not configured")
	}

	token, err := middleware.IssueToken(cfg.JWT.Secret, *subject, *role, *ttl)
	if err != nil {
		log.Fatal("Failed to sign token", zap.Error(err))
	}

	log.Info("Token issued",
		zap.String("subject", *subject),
		zap.String("role", *role),
		zap.Duration("ttl", *ttl),
	)
	fmt.Fprintln(os.Stdout, token)
}
