package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"
)

// ============================================================
// Capital gains tax — POST /v1/cgt/calculate
// ============================================================

type cgtCalculateRequest struct {
	Disposals []domain.CGTDisposal `json:"disposals"`
}

func cgtCalculateHandler(svc *service.TaxService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/cgt/calculate")
		defer span.End()

		var req cgtCalculateRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.Disposals == nil {
			writeError(w, http.StatusBadRequest, "disposals is required")
			return
		}

		result, err := svc.CalculateCGT(ctx, req.Disposals)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
