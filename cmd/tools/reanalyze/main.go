// Command reanalyze re-runs CV analysis in bulk, e.g. after a scoring change
// or to retry FAILED records. Re-analysis is idempotent: each run fully
// recomputes and overwrites prior results.
package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"ats-backend/internal/analysis"
	"ats-backend/internal/config"
	"ats-backend/internal/extract"
	"ats-backend/internal/llm"
	"ats-backend/internal/logger"
	"ats-backend/internal/storage"
)

func main() {
	var status string
	var limit int
	var dryRun bool
	flag.StringVar(&status, "status", string(storage.CVStatusFailed), "Only re-analyze CVs in this status (UPLOADED|ANALYZED|FAILED)")
	flag.IntVar(&limit, "limit", 100, "Max number of CVs to process in one run")
	flag.BoolVar(&dryRun, "dry-run", false, "List matching CVs without re-analyzing")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	var aiAnalyzer analysis.Analyzer
	if client := llm.NewClient(llm.Provider(cfg.LLMProvider), cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout); client != nil {
		aiAnalyzer = analysis.NewAIAnalyzer(client, analysis.NewHeuristicAnalyzer(), log)
	}
	svc := analysis.NewService(db, extract.NewExtractor(), aiAnalyzer, log)

	ctx := context.Background()
	cvs, _, err := db.ListCVs(ctx, storage.CVFilter{Status: status, Page: 1, Limit: limit})
	if err != nil {
		log.Fatal("list cvs", zap.Error(err))
	}
	log.Info("cvs selected", zap.Int("count", len(cvs)), zap.String("status", status))

	failed := 0
	for _, cv := range cvs {
		if dryRun {
			log.Info("would re-analyze", zap.String("cv_id", cv.ID), zap.String("file", cv.FileName))
			continue
		}
		if _, err := svc.Analyze(ctx, cv.ID); err != nil {
			// Analyze already persisted FAILED; keep going with the rest.
			log.Warn("re-analysis failed", zap.String("cv_id", cv.ID), zap.Error(err))
			failed++
		}
	}

	log.Info("done", zap.Int("processed", len(cvs)), zap.Int("failed", failed))
}
