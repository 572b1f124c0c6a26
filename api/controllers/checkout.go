package controllers

import (
	"net/http"

	"github.com/sewnstudio/atelier-backend/api/middleware"
	"github.com/sewnstudio/atelier-backend/api/responses"
	"github.com/sewnstudio/atelier-backend/api/validators"
	"github.com/sewnstudio/atelier-backend/internal/checkout"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
)

// CheckoutSubmit turns the caller's active cart into a placed order.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body checkout.SubmitInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), identity, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
