package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"
)

// ============================================================
// Tax computation — POST /v1/tax/calculate
// ============================================================

type calculateRequest struct {
	Profile *domain.TaxpayerProfile `json:"profile"`
	Inputs  map[string]any          `json:"inputs"`
}

func calculateHandler(svc *service.TaxService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/tax/calculate")
		defer span.End()

		var req calculateRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.Profile == nil {
			writeError(w, http.StatusBadRequest, "Profile is required")
			return
		}
		if req.Inputs == nil {
			writeError(w, http.StatusBadRequest, "Tax inputs are required")
			return
		}

		result, err := svc.Calculate(ctx, req.Profile, req.Inputs)
		if err != nil {
			var validation *domain.ErrValidation
			if errors.As(err, &validation) {
				handleServiceError(w, err, logger)
				return
			}
			logger.Error("tax computation failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "unable to compute tax")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// ============================================================
// Compliance — POST /v1/compliance/check
// ============================================================

type complianceRequest struct {
	Profile *domain.TaxpayerProfile `json:"profile"`
	Inputs  map[string]any          `json:"inputs"`
}

type complianceResponse struct {
	Checks []domain.ComplianceCheck `json:"checks"`
}

func complianceHandler(svc *service.ComplianceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/compliance/check")
		defer span.End()

		var req complianceRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.Profile == nil {
			writeError(w, http.StatusBadRequest, "Profile is required")
			return
		}
		if req.Inputs == nil {
			writeError(w, http.StatusBadRequest, "Tax inputs are required")
			return
		}

		checks, err := svc.Check(ctx, req.Profile, req.Inputs)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, complianceResponse{Checks: checks})
	}
}

// ============================================================
// Optimization — POST /v1/optimize
// ============================================================

type optimizeRequest struct {
	Profile *domain.TaxpayerProfile `json:"profile"`
	Inputs  map[string]any          `json:"inputs"`
	Result  *domain.TaxResult       `json:"result"`
}

type optimizeResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

func optimizeHandler(svc *service.AdvisorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/optimize")
		defer span.End()

		var req optimizeRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.Profile == nil {
			writeError(w, http.StatusBadRequest, "Profile is required")
			return
		}
		if req.Inputs == nil {
			writeError(w, http.StatusBadRequest, "Tax inputs are required")
			return
		}
		if req.Result == nil {
			writeError(w, http.StatusBadRequest, "Tax result is required")
			return
		}

		suggestions, err := svc.Suggest(ctx, req.Profile, req.Inputs, req.Result)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, optimizeResponse{Suggestions: suggestions})
	}
}
