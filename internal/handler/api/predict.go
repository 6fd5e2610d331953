package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/errs"
	"StockCast/internal/domain/models"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

// PredictHandler exposes the prediction pipeline over HTTP.
type PredictHandler struct {
	logger    *xlogger.Logger
	predictor *usecase.Predictor
}

func NewPredictHandler(logger *xlogger.Logger, predictor *usecase.Predictor) *PredictHandler {
	return &PredictHandler{logger: logger, predictor: predictor}
}

func (h *PredictHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/predict", h.Predict)
	e.GET("/healthz", h.Healthz)
}

// PredictResponse is the success body, including the partial-success case
// where the prediction was computed but the backend did not store it.
type PredictResponse struct {
	Success        bool    `json:"success"`
	Symbol         string  `json:"symbol"`
	PredictedPrice float64 `json:"predicted_price"`
	Saved          bool    `json:"saved"`
	Message        string  `json:"message"`
}

func (h *PredictHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.predictor.Predict(c.Request().Context(), req.Symbol)
	if err != nil {
		kind := errs.KindOf(err)
		h.logger.Error("prediction failed",
			xlogger.String("query", req.Symbol),
			xlogger.String("kind", kind.String()),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, toAppError(err, kind))
	}

	msg := "Prediction saved successfully."
	if !res.Saved {
		msg = "Prediction made, but failed to save to backend."
	}
	return xhttp.SuccessResponse(c, PredictResponse{
		Success:        true,
		Symbol:         res.Symbol,
		PredictedPrice: res.Price,
		Saved:          res.Saved,
		Message:        msg,
	})
}

func (h *PredictHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// toAppError maps the closed error taxonomy onto transport errors. Only the
// kinded message reaches the client, never wrapped internals.
func toAppError(err error, kind errs.Kind) *xhttp.AppError {
	msg := errs.MessageOf(err)
	switch kind {
	case errs.KindSymbolNotFound:
		return xhttp.NotFoundError(msg).WithError(err)
	default:
		return xhttp.InternalError(msg).WithError(err)
	}
}
