package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/airline-seat-booking/internal/model"
)

// Fares: the fare table, no category first.
func (h *SeatHandler) Fares(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "base_fare":        h.Engine.Options().BaseFare,
        "category_pricing": h.Engine.Options().CategoryPricing,
        "fares":            h.Engine.Fares(),
    })
}

// Fare: GET /v1/fares/:category, where NONE names the untagged fare.
func (h *SeatHandler) Fare(c echo.Context) error {
    category, ok := model.ParseCategory(c.Param("category"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
    }
    for _, f := range h.Engine.Fares() {
        if f.Category == category {
            return c.JSON(http.StatusOK, f)
        }
    }
    return c.JSON(http.StatusNotFound, echo.Map{"error": "fare not found"})
}
