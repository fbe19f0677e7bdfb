// Package http implements the HTTP handlers of the RidePulse dashboard.
// Handlers are a thin layer between chi routing and the services package:
// they parse and validate the request, call one service method, and render
// the result.
//
// # Handler Structure
//
// Each handler follows this pattern:
//
//	func (h *Handler) HandleSomething(w http.ResponseWriter, r *http.Request) {
//	    req := api.FilterRequestFromQuery(r.URL.Query())
//	    if err := appmw.ValidateStruct(h.validate, req); err != nil {
//	        h.errorHandler.HandleError(w, r, err)
//	        return
//	    }
//
//	    result, err := h.service.DoSomething(r.Context(), req)
//	    if err != nil {
//	        h.errorHandler.HandleError(w, r, err)
//	        return
//	    }
//
//	    render.JSON(w, r, api.Success(result))
//	}
//
// # Error Handling
//
// Service errors are never translated by hand. The shared ErrorHandler maps
// domain sentinels to RFC 7807 problems:
//
//	{
//	    "type": "/errors/view/unknown",
//	    "title": "Unknown View",
//	    "status": 404,
//	    "detail": "unknown view: \"MAP\"",
//	    "instance": "/api/dashboard/MAP",
//	    "trace_id": "..."
//	}
//
// # Caching
//
// Stateless renders carry an ETag derived from the dataset fingerprint and
// the resolved filters. A matching If-None-Match answers 304.
//
// # Testing
//
// Handlers are tested with httptest against testify mocks of
// DashboardServiceInterface and SessionServiceInterface.
package http
