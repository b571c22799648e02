package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"feedtagger/internal/articles"
	"feedtagger/internal/config"
	"feedtagger/internal/keywords"
	"feedtagger/internal/poller"
	"feedtagger/internal/security"
	"feedtagger/internal/storage"
	"feedtagger/internal/tagstore"
	"feedtagger/internal/web"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	router        *gin.Engine
	keywords      *keywords.Store
	articles      *articles.Service
	vocabulary    *tagstore.Vocabulary
	poller        *poller.Poller
	storage       storage.Storage
	port          int
	swaggerServer *web.SwaggerServer
}

func NewServer(keywordStore *keywords.Store, articleService *articles.Service, vocabulary *tagstore.Vocabulary, p *poller.Poller, storageManager storage.Storage, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	// Setup security middleware
	securityConfig := &security.SecurityConfig{
		EnableRateLimit:       cfg.Security.EnableRateLimit,
		RateLimitPerSecond:    cfg.Security.RateLimitPerSecond,
		RateLimitBurst:        cfg.Security.RateLimitBurst,
		EnableCORS:            cfg.Security.EnableCORS,
		AllowedOrigins:        cfg.Security.AllowedOrigins,
		EnableSecurityHeaders: cfg.Security.EnableSecurityHeaders,
		MaxRequestSize:        cfg.Security.MaxRequestSize,
		EnableRequestID:       cfg.Security.EnableRequestID,
	}
	security.SetupSecurityMiddleware(router, securityConfig)

	server := &Server{
		router:        router,
		keywords:      keywordStore,
		articles:      articleService,
		vocabulary:    vocabulary,
		poller:        p,
		storage:       storageManager,
		port:          cfg.Port,
		swaggerServer: web.NewSwaggerServer(cfg.EnableSwagger),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.index)

	// Health check
	s.router.GET("/health", s.healthCheck)

	// API routes
	api := s.router.Group("/api/v1")
	{
		api.GET("/keywords", s.listKeywords)
		api.POST("/keywords", s.addKeywords)
		api.DELETE("/keywords", s.removeKeywords)
		api.DELETE("/keywords/*value", s.removeKeyword)

		api.GET("/articles", s.queryArticles)

		api.GET("/tags", s.listTags)
		api.PUT("/tags", s.replaceTags)
		api.DELETE("/tags", s.removeTags)

		// Ingestion control endpoints
		api.POST("/ingest/run", s.runIngestion)
		api.POST("/restart", s.runIngestion)
		api.GET("/ingest/status", s.ingestionStatus)
	}

	s.swaggerServer.RegisterRoutes(s.router, "")
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// StartWithContext serves until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) StartWithContext(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "feedtagger API is running"})
}

func (s *Server) healthCheck(c *gin.Context) {
	response := gin.H{
		"status":        "healthy",
		"service":       "feedtagger",
		"poller_active": s.poller.IsPolling(),
	}

	stats, err := s.storage.GetDatabaseStats(c.Request.Context())
	if err != nil {
		log.Printf("Health check: failed to read database stats: %v", err)
		response["status"] = "degraded"
	} else {
		response["database"] = stats
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) listKeywords(c *gin.Context) {
	values, err := s.keywords.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, values)
}

func (s *Server) addKeywords(c *gin.Context) {
	values, err := decodeKeywordsBody(c, true)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := s.keywords.Add(c.Request.Context(), values)
	if err != nil {
		respondError(c, err)
		return
	}

	if len(result.Added) == 0 && len(result.Skipped) == 0 {
		c.JSON(http.StatusOK, gin.H{"added": result.Added, "skipped": result.Skipped, "message": "No valid keywords."})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) removeKeywords(c *gin.Context) {
	values, err := decodeKeywordsBody(c, false)
	if err != nil {
		respondError(c, err)
		return
	}
	if !hasNonBlank(values) {
		respondError(c, &ValidationError{Message: "Provide 'keywords' as a non-empty list of strings."})
		return
	}

	result, err := s.keywords.Remove(c.Request.Context(), values)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) removeKeyword(c *gin.Context) {
	value := strings.TrimPrefix(c.Param("value"), "/")
	if !hasNonBlank([]string{value}) {
		respondError(c, &ValidationError{Message: "Keyword cannot be empty."})
		return
	}

	result, err := s.keywords.Remove(c.Request.Context(), []string{value})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) queryArticles(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	pageSize, err := queryInt(c, "page_size", articles.DefaultPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := s.articles.Query(c.Request.Context(), c.QueryArray("tags"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listTags(c *gin.Context) {
	include := false
	if raw := c.Query("include_has_articles"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, &ValidationError{Message: "include_has_articles must be a boolean"})
			return
		}
		include = parsed
	}

	ctx := c.Request.Context()
	if include {
		infos, canonical, err := s.vocabulary.TagsWithArticles(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("X-Tag-Source", tagSource(canonical))
		c.JSON(http.StatusOK, infos)
		return
	}

	list, canonical, err := s.vocabulary.Tags(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("X-Tag-Source", tagSource(canonical))
	c.JSON(http.StatusOK, list)
}

func (s *Server) replaceTags(c *gin.Context) {
	list, err := decodeTagsBody(c)
	if err != nil {
		respondError(c, err)
		return
	}

	saved, err := s.vocabulary.Replace(c.Request.Context(), list)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": saved})
}

func (s *Server) removeTags(c *gin.Context) {
	list, err := decodeTagsBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if !hasNonBlank(list) {
		respondError(c, &ValidationError{Message: "Provide 'tags' as a non-empty list of strings."})
		return
	}

	result, err := s.vocabulary.Remove(c.Request.Context(), list)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) runIngestion(c *gin.Context) {
	result, err := s.poller.Trigger()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) ingestionStatus(c *gin.Context) {
	response := gin.H{
		"is_polling": s.poller.IsPolling(),
		"is_running": s.poller.IsRunning(),
		"state":      s.poller.RunState(),
		"last_run":   nil,
	}
	if last, ok := s.poller.LastRun(); ok {
		response["last_run"] = last
	}
	c.JSON(http.StatusOK, response)
}

func tagSource(canonical bool) string {
	if canonical {
		return "canonical"
	}
	return "derived"
}

func queryInt(c *gin.Context, key string, defaultVal int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Message: key + " must be an integer"}
	}
	return value, nil
}
