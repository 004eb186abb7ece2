package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"
)

// ============================================================
// Withholding tax — GET /v1/wht/rates, POST /v1/wht/calculate
// ============================================================

type whtRatesResponse struct {
	Rates []domain.WHTRateRow `json:"rates"`
	Rules domain.RuleMeta     `json:"rules"`
}

func whtRatesHandler(svc *service.TaxService, rulesSvc *service.RulesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/wht/rates")
		defer span.End()

		writeJSON(w, http.StatusOK, whtRatesResponse{
			Rates: svc.WithholdingRates(),
			Rules: rulesSvc.Meta(),
		})
	}
}

type whtCalculateRequest struct {
	Payments []map[string]any `json:"payments"`
}

func whtCalculateHandler(svc *service.TaxService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/wht/calculate")
		defer span.End()

		var req whtCalculateRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.Payments == nil {
			writeError(w, http.StatusBadRequest, "payments is required")
			return
		}

		result, err := svc.CalculateWHT(ctx, req.Payments)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
