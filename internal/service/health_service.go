package service

import (
	"context"
	"fmt"

	"primariaPortal/internal/repository"
)

type HealthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Tables   int    `json:"tables"`
}

type HealthService interface {
	Check(ctx context.Context) (*HealthReport, error)
}

type healthService struct {
	tablesRepo repository.TablesRepository
	db         Pinger
}

func NewHealthService(tablesRepo repository.TablesRepository, db Pinger) HealthService {
	return &healthService{tablesRepo: tablesRepo, db: db}
}

// Check always returns a report; the error tells the caller the service is degraded.
func (h *healthService) Check(ctx context.Context) (*HealthReport, error) {
	report := &HealthReport{Status: "ok", Database: "ok"}

	if err := h.db.HealthCheck(); err != nil {
		report.Status, report.Database = "degraded", "unreachable"
		return report, fmt.Errorf("baza de date nu răspunde: %w", err)
	}

	countTables, err := h.tablesRepo.CountTablesDB(ctx)
	if err != nil {
		report.Status = "degraded"
		return report, err
	}
	report.Tables = countTables

	return report, nil
}
