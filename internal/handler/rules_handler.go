package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"
)

// ============================================================
// Rule snapshots — GET /v1/rules, POST /v1/admin/rules,
// POST /v1/admin/rules/refresh
// ============================================================

func rulesMetaHandler(svc *service.RulesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/rules")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Meta())
	}
}

func rulesOverrideHandler(svc *service.RulesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/rules")
		defer span.End()

		var doc domain.OverrideDocument
		if err := decodeJSON(r, &doc); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		meta, err := svc.ApplyOverride(ctx, &doc)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		logger.Info("rule override applied",
			zap.String("version", meta.Version),
			zap.String("admin", AdminSubjectFromContext(ctx)),
		)
		writeJSON(w, http.StatusOK, meta)
	}
}

func rulesRefreshHandler(svc *service.RulesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/rules/refresh")
		defer span.End()

		meta, err := svc.Refresh(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, meta)
	}
}
