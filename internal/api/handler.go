package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pricesnap/internal/domain/dto"
	"github.com/guttosm/pricesnap/internal/service"
)

// Handler provides HTTP handlers for snapshot endpoints.
//
// Responsibilities:
//   - Validate incoming path parameters
//   - Interact with the service layer for data access
//   - Translate snapshots into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc service.QuotesService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.QuotesService): Service used to read the latest snapshot.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.QuotesService) *Handler {
	return &Handler{svc: svc}
}

// GetSnapshot handles GET /api/v1/quotes requests.
//
// Responses:
//   - 200 OK: The latest snapshot, identical to the JSON file.
//   - 404 Not Found: No snapshot has been written yet.
//   - 500 Internal Server Error: The snapshot could not be read.
//
// GetSnapshot godoc
// @Summary      Latest snapshot
// @Description  Returns the most recent price snapshot with all resolved tickers
// @Tags         quotes
// @Produce      json
// @Success      200  {object}  models.Snapshot    "Success"
// @Failure      404  {object}  dto.ErrorResponse  "Not Found"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/quotes [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	snap, err := h.svc.GetSnapshot(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("no snapshot available", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to read snapshot", err))
		return
	}

	c.JSON(http.StatusOK, snap)
}

// GetQuote handles GET /api/v1/quotes/:ticker requests.
//
// Path Parameters:
//   - ticker (string, required): Canonical ticker (e.g., "AGI"); case-insensitive.
//
// GetQuote godoc
// @Summary      Quote by ticker
// @Description  Returns the latest usable close for one ticker together with the snapshot provenance
// @Tags         quotes
// @Produce      json
// @Param        ticker  path      string  true  "Ticker" example(AGI)
// @Success      200     {object}  dto.QuoteResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/quotes/{ticker} [get]
func (h *Handler) GetQuote(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("ticker is required", nil))
		return
	}

	snap, q, err := h.svc.GetQuote(c.Request.Context(), ticker)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("no quote for "+ticker, nil))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to read snapshot", err))
		return
	}

	c.JSON(http.StatusOK, dto.QuoteResponse{
		Ticker: ticker,
		Price:  q.Price,
		AsOf:   snap.AsOf,
		Source: snap.Source,
	})
}
