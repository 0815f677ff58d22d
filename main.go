package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bankportal/backend"
	"bankportal/service"
	"bankportal/session"
	"bankportal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	addr := envOr("PORTAL_ADDR", ":8080")
	backendBase := envOr("PORTAL_BACKEND_BASE", "http://localhost:8081/api")
	sessionFile := envOr("PORTAL_SESSION_FILE", filepath.Join(os.TempDir(), "bankportal-session.json"))
	origins := strings.Split(envOr("PORTAL_ALLOWED_ORIGINS", "http://localhost:4200"), ",")

	client := backend.NewClient(backendBase)
	sessions := session.NewStore(sessionFile)
	customers := service.NewCustomerService(client, store.NewCache())
	employees := service.NewEmployeeService(client)
	auth := service.NewAuthService(client, sessions)

	// Restore a persisted identity before serving; enrichment here is
	// opportunistic and must not delay startup for long.
	restoreCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	auth.Restore(restoreCtx)
	cancel()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	srv := &server{
		customers: customers,
		employees: employees,
		auth:      auth,
		sessions:  sessions,
	}
	srv.register(r)

	log.Printf("bank portal listening on %s, backend %s", addr, backendBase)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
