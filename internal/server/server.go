// Package server exposes the analysis pipeline over HTTP. Uploads are
// processed in-memory per request; nothing is written to disk or retained
// after the response.
package server

import (
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/funnelform/leadlens/internal/config"
	"github.com/funnelform/leadlens/internal/dataset"
	"github.com/funnelform/leadlens/internal/insights"
	"github.com/funnelform/leadlens/internal/pipeline"
	"github.com/funnelform/leadlens/internal/propensity"
)

// Server wires configuration and the optional insight generator into the
// HTTP handlers.
type Server struct {
	cfg *config.Global
	gen insights.Generator
}

// New builds a server. gen may be nil; insights then come from the template.
func New(cfg *config.Global, gen insights.Generator) *Server {
	return &Server{cfg: cfg, gen: gen}
}

// Router assembles the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/healthz", s.health)
	api := router.Group("/api")
	{
		api.POST("/analyze", s.analyze)
	}
	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// analyze accepts a multipart spreadsheet upload and returns the full
// analysis outcome. Each upload gets a fresh id for log correlation; the file
// itself is never stored.
func (s *Server) analyze(c *gin.Context) {
	if s.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or oversized file field"})
		return
	}

	uploadID := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()

	var table *dataset.Table
	switch ext {
	case ".csv":
		table, err = dataset.ReadCSVReader(f, ',')
	case ".tsv":
		table, err = dataset.ReadCSVReader(f, '\t')
	case ".xlsx":
		var b []byte
		if b, err = io.ReadAll(f); err == nil {
			table, err = dataset.ReadXLSXBytes(b, c.Query("sheet_name"), atoiDefault(c.Query("sheet_index"), 0))
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: want .csv, .tsv or .xlsx"})
		return
	}
	if err != nil {
		log.Printf("upload %s: parse failed: %v", uploadID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse upload: " + err.Error()})
		return
	}

	out := pipeline.Run(c.Request.Context(), table, pipeline.Options{
		Source:       fileHeader.Filename,
		TopCampaigns: s.cfg.TopCampaigns,
		SkipModel:    c.Query("no_model") == "true",
		Training: propensity.Options{
			TestFraction: s.cfg.TrainTestFraction,
			Seed:         s.cfg.TrainSeed,
			MaxIter:      s.cfg.TrainMaxIter,
		},
		Generator: s.gen,
	})
	log.Printf("upload %s: %s rows=%d model_failure=%q", uploadID, fileHeader.Filename, out.Rows, out.Model.FailureReason)

	c.JSON(http.StatusOK, gin.H{
		"upload_id": uploadID,
		"outcome":   out,
	})
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
