package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/airline-seat-booking/internal/middleware"
    "github.com/iliyamo/airline-seat-booking/internal/model"
    "github.com/iliyamo/airline-seat-booking/internal/service"
)

// SeatHandler exposes the allocation engine over HTTP.
type SeatHandler struct {
    Engine *service.Engine
    Log    *zap.Logger
}

func NewSeatHandler(e *service.Engine, log *zap.Logger) *SeatHandler {
    return &SeatHandler{Engine: e, Log: log}
}

type categoryReq struct {
    Category string `json:"category"`
}

// bookingResp adds the charged fare to a successful booking result.
type bookingResp struct {
    service.Result
    Fare *float64 `json:"fare,omitempty"`
}

type seatListResp struct {
    Rows    int              `json:"rows"`
    Columns string           `json:"columns"`
    Seats   []model.SeatView `json:"seats"`
}

// statusFor maps an engine result code to its HTTP status.
func statusFor(code service.Code) int {
    switch code {
    case service.CodeOK:
        return http.StatusOK
    case service.CodeInvalidSeat, service.CodeNoSuitableSeat:
        return http.StatusNotFound
    case service.CodeAlreadyBooked, service.CodeNotBooked:
        return http.StatusConflict
    case service.CodeInvalidGroupSize:
        return http.StatusBadRequest
    case service.CodeFeatureDisabled:
        return http.StatusForbidden
    }
    return http.StatusInternalServerError
}

func (h *SeatHandler) requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
    ctx := service.WithActor(c.Request().Context(), middleware.Actor(c))
    return context.WithTimeout(ctx, 5*time.Second)
}

func (h *SeatHandler) storeFailed(c echo.Context, err error) error {
    h.Log.Error("seat store", zap.String("path", c.Path()), zap.Error(err))
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat store unavailable"})
}

// bindCategory reads an optional {"category": "..."} body.
func bindCategory(c echo.Context) (model.Category, bool) {
    var req categoryReq
    if err := c.Bind(&req); err != nil {
        return model.CategoryNone, false
    }
    return model.ParseCategory(req.Category)
}

func (h *SeatHandler) booked(c echo.Context, res service.Result, category model.Category) error {
    out := bookingResp{Result: res}
    if res.OK {
        fare := h.Engine.CalculatePrice(category)
        out.Fare = &fare
    }
    return c.JSON(statusFor(res.Code), out)
}

// List: every seat in grid order.
func (h *SeatHandler) List(c echo.Context) error {
    ctx, cancel := h.requestCtx(c)
    defer cancel()

    seats, err := h.Engine.Snapshot(ctx)
    if err != nil {
        return h.storeFailed(c, err)
    }
    g := h.Engine.Grid()
    return c.JSON(http.StatusOK, seatListResp{Rows: g.Rows(), Columns: g.Columns(), Seats: seats})
}

// Map: plain text seat map.
func (h *SeatHandler) Map(c echo.Context) error {
    ctx, cancel := h.requestCtx(c)
    defer cancel()

    seats, err := h.Engine.Snapshot(ctx)
    if err != nil {
        return h.storeFailed(c, err)
    }
    return c.String(http.StatusOK, RenderSeatMap(h.Engine.Grid(), seats))
}

// Get: status of one seat; unknown identifiers are 404 with status INVALID.
func (h *SeatHandler) Get(c echo.Context) error {
    ctx, cancel := h.requestCtx(c)
    defer cancel()

    view, err := h.Engine.Status(ctx, c.Param("id"))
    if err != nil {
        return h.storeFailed(c, err)
    }
    if view.Status == model.StatusInvalid {
        return c.JSON(http.StatusNotFound, view)
    }
    return c.JSON(http.StatusOK, view)
}

// Book: POST /v1/seats/:id/book {"category": "ELDERLY"}
func (h *SeatHandler) Book(c echo.Context) error {
    category, ok := bindCategory(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
    }
    ctx, cancel := h.requestCtx(c)
    defer cancel()

    res, err := h.Engine.Book(ctx, c.Param("id"), category)
    if err != nil {
        return h.storeFailed(c, err)
    }
    return h.booked(c, res, category)
}

// Cancel: DELETE /v1/seats/:id/book
func (h *SeatHandler) Cancel(c echo.Context) error {
    ctx, cancel := h.requestCtx(c)
    defer cancel()

    res, err := h.Engine.Cancel(ctx, c.Param("id"))
    if err != nil {
        return h.storeFailed(c, err)
    }
    return c.JSON(statusFor(res.Code), res)
}

// AutoAssign: POST /v1/seats/auto-assign {"category": "SILENT"}
func (h *SeatHandler) AutoAssign(c echo.Context) error {
    category, ok := bindCategory(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
    }
    ctx, cancel := h.requestCtx(c)
    defer cancel()

    res, err := h.Engine.AutoAssign(ctx, category)
    if err != nil {
        return h.storeFailed(c, err)
    }
    return h.booked(c, res, category)
}

// Group: GET /v1/seats/:id/group?size=3
func (h *SeatHandler) Group(c echo.Context) error {
    size, err := strconv.Atoi(c.QueryParam("size"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "size must be an integer"})
    }
    ctx, cancel := h.requestCtx(c)
    defer cancel()

    res, err := h.Engine.FindAdjacentGroup(ctx, c.Param("id"), size)
    if err != nil {
        return h.storeFailed(c, err)
    }
    return c.JSON(statusFor(res.Code), res)
}
