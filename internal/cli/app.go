package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/staycheck/internal/analysis"
	"github.com/vbonduro/staycheck/internal/config"
	"github.com/vbonduro/staycheck/internal/db"
	"github.com/vbonduro/staycheck/internal/photostore/local"
	"github.com/vbonduro/staycheck/internal/service"
	"github.com/vbonduro/staycheck/internal/store"
	"github.com/vbonduro/staycheck/internal/vision"
	"github.com/vbonduro/staycheck/internal/vision/claude"
	"github.com/vbonduro/staycheck/internal/vision/gemini"
	"github.com/vbonduro/staycheck/internal/vision/ollama"
)

// app holds the wired services for one command invocation.
type app struct {
	db          *sql.DB
	properties  *service.PropertyService
	inspections *service.InspectionService
}

func (a *app) Close() {
	closeDB(a.db)
}

// newApp opens the database and wires the services. A nil analyzer leaves
// photo uploads unavailable, which is all the offline commands need.
func newApp(cfg *config.Config, analyzer vision.VisionAnalyzer, logger *slog.Logger) (*app, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	photoStg, err := local.NewLocalPhotoStore(cfg.PhotoPath)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	propertyStore := store.NewPropertyStore(database)
	roomStore := store.NewRoomStore(database)
	checkStore := store.NewCheckStore(database)
	checklistStore := store.NewChecklistStore(database)

	inspections := service.NewInspectionService(
		propertyStore,
		roomStore,
		checkStore,
		checklistStore,
		store.NewPhotoStore(database),
		store.NewIssueStore(database),
		analyzer,
		photoStg,
		analysis.NewSynthesizer(cfg.Analysis, analysis.ZeroCostEstimator{}),
		logger,
	)
	inspections.SetAnalysisTimeout(cfg.AnalysisTimeout)

	return &app{
		db:          database,
		properties:  service.NewPropertyService(propertyStore, roomStore, checklistStore, checkStore, logger),
		inspections: inspections,
	}, nil
}

// newAnalyzer builds the configured vision backend.
func newAnalyzer(ctx context.Context, cfg *config.Config) (vision.VisionAnalyzer, error) {
	switch cfg.VisionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY is required for the claude backend")
		}
		return claude.NewClaudeAnalyzer(cfg.ClaudeAPIKey, cfg.ClaudeModel), nil
	case "gemini":
		a, err := gemini.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "")
		if err != nil {
			return nil, err
		}
		return a, nil
	case "ollama":
		return ollama.NewOllamaAnalyzer(cfg.OllamaHost, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unknown vision backend %q", cfg.VisionBackend)
	}
}
