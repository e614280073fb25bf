package commands

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"cammanager/internal/assist"
	"cammanager/internal/config"
	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/handlers"
	"cammanager/internal/inventory"
	"cammanager/internal/logger"
	"cammanager/internal/notify"
	"cammanager/internal/version"
	"cammanager/internal/web"
)

func RunServe(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	// CLI arg overrides
	portOverride := false
	var bootstrapUser, bootstrapPass string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--port", "-p":
			if i+1 < len(args) {
				i++
				fmt.Sscanf(args[i], "%d", &cfg.Server.Port)
				portOverride = true
			}
		case "--bind", "-b":
			if i+1 < len(args) {
				i++
				cfg.Server.Bind = args[i]
			}
		case "--user":
			if i+1 < len(args) {
				i++
				bootstrapUser = args[i]
			}
		case "--password":
			if i+1 < len(args) {
				i++
				bootstrapPass = args[i]
			}
		case "--debug":
			cfg.Log.Mode = "debug"
			cfg.Log.Level = "debug"
		}
	}

	// A --port override is persisted so the next start reuses it.
	if portOverride {
		if err := config.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save config: %v\n", err)
		} else {
			fmt.Printf("port %d saved to config file\n", cfg.Server.Port)
		}
	}

	logger.Init(cfg.Log)
	logger.Log.Info().Str("version", version.Version).Msg("CamManager starting")

	if err := database.Init(cfg.Database, cfg.IsDebug()); err != nil {
		logger.Log.Error().Err(err).Msg("database init failed")
		return 1
	}
	defer database.Close()

	if err := database.SeedDefaults(database.DB); err != nil {
		logger.Log.Error().Err(err).Msg("database seeding failed")
		return 1
	}

	if bootstrapUser != "" && bootstrapPass != "" {
		if err := database.BootstrapAdmin(database.DB, bootstrapUser, bootstrapPass); err != nil {
			logger.Log.Error().Err(err).Msg("admin bootstrap failed")
			return 1
		}
	}

	// Live event feed
	wsHub := web.NewWSHub(cfg.Server.CORSOrigins)
	go wsHub.Run()

	// Audit entries written outside the inventory engine (logins, user
	// management) reach the audit feed through this hook.
	database.SetAuditBroadcast(func(entry *database.AuditLog) {
		wsHub.Broadcast(constants.ChannelAudit, "audit.created", entry)
	})

	// Out-of-band alerts
	notifyMgr := notify.NewManager(cfg.Notify)

	// Core engine
	svc := inventory.NewService(database.DB)
	svc.SetBroadcaster(wsHub)
	svc.SetNotifier(notifyMgr)

	assistClient := assist.New(cfg.Assist.APIKey, cfg.Assist.Model)
	if !assistClient.Enabled() {
		logger.Assist.Info().Msg("assistant disabled: no API key configured")
	}

	authHandler := handlers.NewAuthHandler(&cfg)
	userHandler := handlers.NewUserHandler()
	cameraHandler := handlers.NewCameraHandler(svc)
	recorderHandler := handlers.NewRecorderHandler(svc)
	taxonomyHandler := handlers.NewTaxonomyHandler(svc)
	siteMapHandler := handlers.NewSiteMapHandler(svc)
	auditHandler := handlers.NewAuditHandler()
	exportHandler := handlers.NewExportHandler(svc)
	assistHandler := handlers.NewAssistHandler(svc, assistClient)
	dashboardHandler := handlers.NewDashboardHandler(svc)

	router := web.NewRouter()

	// auth (login is the only unauthenticated mutation)
	router.POST("/api/v1/auth/login", authHandler.Login)
	router.POST("/api/v1/auth/logout", authHandler.Logout)
	router.GET("/api/v1/auth/me", authHandler.Me)
	router.PUT("/api/v1/auth/password", authHandler.ChangePassword)

	// user management (admin only)
	router.GET("/api/v1/users", web.RequireAdmin(userHandler.List))
	router.POST("/api/v1/users", web.RequireAdmin(userHandler.Save))
	router.DELETE("/api/v1/users", web.RequireAdmin(userHandler.Delete))

	// cameras
	router.GET("/api/v1/cameras", cameraHandler.List)
	router.POST("/api/v1/cameras", cameraHandler.Save)
	router.DELETE("/api/v1/cameras", cameraHandler.Delete)
	router.POST("/api/v1/cameras/import", cameraHandler.Import)

	// recorders
	router.GET("/api/v1/recorders", recorderHandler.List)
	router.POST("/api/v1/recorders", recorderHandler.Save)
	router.DELETE("/api/v1/recorders", recorderHandler.Delete)

	// taxonomies (locations / types / statuses)
	router.GET("/api/v1/taxonomies", taxonomyHandler.List)
	router.POST("/api/v1/taxonomies", taxonomyHandler.Add)
	router.PUT("/api/v1/taxonomies", taxonomyHandler.Rename)
	router.POST("/api/v1/taxonomies/delete", taxonomyHandler.Remove)

	// site maps and camera placement
	router.GET("/api/v1/maps", siteMapHandler.List)
	router.POST("/api/v1/maps", siteMapHandler.Create)
	router.DELETE("/api/v1/maps", siteMapHandler.Delete)
	router.PUT("/api/v1/maps/image", siteMapHandler.UpdateImage)
	router.GET("/api/v1/maps/positions", siteMapHandler.Positions)
	router.PUT("/api/v1/maps/positions", siteMapHandler.SetPosition)
	router.DELETE("/api/v1/maps/positions", siteMapHandler.ClearPosition)

	// audit trail
	router.GET("/api/v1/audit-logs", auditHandler.List)

	// CSV export
	router.GET("/api/v1/export/cameras", exportHandler.ExportCameras)
	router.GET("/api/v1/export/recorders", exportHandler.ExportRecorders)

	// assistant
	router.POST("/api/v1/assist", assistHandler.Query)

	// dashboard
	router.GET("/api/v1/dashboard", dashboardHandler.Stats)

	// WebSocket
	router.GET("/api/v1/ws", wsHub.HandleWS(cfg.Auth.JWTSecret))

	router.GET("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		web.OK(w, r, map[string]interface{}{
			"status":  "ok",
			"version": version.Version,
		})
	})

	// Static files fallback (SPA)
	router.Handle("*", "/", spaHandler())

	skipAuthPaths := []string{
		"/api/v1/auth/login",
		"/api/v1/health",
		"/api/v1/ws",
	}

	// login rate limit: 10 attempts per IP per minute
	rlCtx, rlCancel := context.WithCancel(context.Background())
	defer rlCancel()
	loginLimiter := web.NewRateLimiter(10, time.Minute, rlCtx)
	rateLimitPaths := []string{"/api/v1/auth/login"}

	handler := web.Chain(
		router,
		web.RecoveryMiddleware,
		web.SecurityHeadersMiddleware,
		web.RequestIDMiddleware,
		web.RequestLogMiddleware,
		web.CORSMiddleware(cfg.Server.CORSOrigins),
		web.MaxBodySizeMiddleware(8<<20), // 8 MB, map images arrive as data URIs
		web.RateLimitMiddleware(loginLimiter, rateLimitPaths),
		web.InputSanitizeMiddleware,
		web.AuthMiddleware(cfg.Auth.JWTSecret, skipAuthPaths),
	)

	if cfg.Server.Bind != "127.0.0.1" && cfg.Server.Bind != "localhost" {
		logger.Log.Warn().Str("bind", cfg.Server.Bind).Msg("binding to a non-loopback address; make sure the firewall is configured")
	}

	// fail fast when the port is taken
	testAddr := fmt.Sprintf("%s:%d", cfg.Server.Bind, cfg.Server.Port)
	ln, err := net.Listen("tcp", testAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "port %d is already in use; pick another with --port\n", cfg.Server.Port)
		logger.Log.Error().Int("port", cfg.Server.Port).Err(err).Msg("port in use")
		return 1
	}
	ln.Close()

	addr := cfg.ListenAddr()
	logger.Log.Info().Str("addr", addr).Msg("web server listening")
	fmt.Printf("\nCamManager %s\n", version.Version)
	fmt.Printf("  ➜ http://localhost:%d\n", cfg.Server.Port)
	if cfg.Server.Bind == "0.0.0.0" || cfg.Server.Bind == "" {
		if addrs, err := net.InterfaceAddrs(); err == nil {
			for _, a := range addrs {
				if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
					fmt.Printf("  ➜ http://%s:%d\n", ipnet.IP.String(), cfg.Server.Port)
				}
			}
		}
	}
	fmt.Println()

	srv := &http.Server{Addr: addr, Handler: handler}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	logger.Log.Info().Msg("server stopped")
	return 0
}

func serveIndex(w http.ResponseWriter, fsys fs.FS) {
	data, err := fs.ReadFile(fsys, "index.html")
	if err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `<!DOCTYPE html><html><body><h1>CamManager</h1><p>index.html not found</p></body></html>`)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func spaHandler() http.HandlerFunc {
	fsys, err := fs.Sub(web.StaticFS, "dist")
	if err != nil {
		logger.Log.Error().Err(err).Msg("frontend assets unavailable")
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `<!DOCTYPE html><html><body><h1>CamManager</h1><p>frontend assets missing</p></body></html>`)
		}
	}
	fileServer := http.FileServer(http.FS(fsys))

	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" || path == "/" {
			serveIndex(w, fsys)
			return
		}

		f, err := fsys.Open(path)
		if err == nil {
			stat, _ := f.Stat()
			f.Close()
			if stat != nil && !stat.IsDir() {
				// explicit charset so browsers never guess the encoding
				switch strings.ToLower(filepath.Ext(path)) {
				case ".html":
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
				case ".css":
					w.Header().Set("Content-Type", "text/css; charset=utf-8")
				case ".js":
					w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
				case ".json":
					w.Header().Set("Content-Type", "application/json; charset=utf-8")
				}
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		// SPA fallback
		serveIndex(w, fsys)
	}
}
