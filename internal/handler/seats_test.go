package handler

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "github.com/iliyamo/airline-seat-booking/internal/grid"
    "github.com/iliyamo/airline-seat-booking/internal/model"
    "github.com/iliyamo/airline-seat-booking/internal/repository"
    "github.com/iliyamo/airline-seat-booking/internal/service"
)

func TestStatusFor(t *testing.T) {
    cases := map[service.Code]int{
        service.CodeOK:               http.StatusOK,
        service.CodeInvalidSeat:      http.StatusNotFound,
        service.CodeAlreadyBooked:    http.StatusConflict,
        service.CodeNotBooked:        http.StatusConflict,
        service.CodeNoSuitableSeat:   http.StatusNotFound,
        service.CodeInvalidGroupSize: http.StatusBadRequest,
        service.CodeFeatureDisabled:  http.StatusForbidden,
        service.Code("weird"):        http.StatusInternalServerError,
    }
    for code, want := range cases {
        assert.Equal(t, want, statusFor(code), string(code))
    }
}

func TestRenderSeatMap(t *testing.T) {
    g, err := grid.New(2, "ABCD", []int{2})
    require.NoError(t, err)
    seats := []model.SeatView{
        {ID: "1A", Status: model.StatusAvailable},
        {ID: "1B", Status: model.StatusBooked, Category: model.CategoryInfant},
        {ID: "1C", Status: model.StatusAvailable},
        {ID: "1D", Status: model.StatusAvailable},
        {ID: "2A", Status: model.StatusInvalid},
        {ID: "2B", Status: model.StatusAvailable},
        {ID: "2C", Status: model.StatusAvailable},
        {ID: "2D", Status: model.StatusBooked},
    }
    want := "1A  XX      1C  1D\n" +
        "??  2B      2C  XX\n"
    assert.Equal(t, want, RenderSeatMap(g, seats))
}

func TestGroup_FeatureDisabled(t *testing.T) {
    g, err := grid.New(3, "AB", nil)
    require.NoError(t, err)
    opts := service.DefaultOptions()
    opts.GroupSearch = false
    engine := service.NewEngine(g, repository.NewMemSeatStore(), opts)
    require.NoError(t, engine.Init(context.Background()))
    h := NewSeatHandler(engine, zap.NewNop())

    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/seats/1A/group?size=2", nil), rec)
    c.SetParamNames("id")
    c.SetParamValues("1A")

    require.NoError(t, h.Group(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.True(t, strings.Contains(rec.Body.String(), `"feature_disabled"`))
}

func TestFare_PricingDisabled(t *testing.T) {
    g, err := grid.New(3, "AB", nil)
    require.NoError(t, err)
    opts := service.DefaultOptions()
    opts.CategoryPricing = false
    h := NewSeatHandler(service.NewEngine(g, repository.NewMemSeatStore(), opts), zap.NewNop())

    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/fares/ELDERLY", nil), rec)
    c.SetParamNames("category")
    c.SetParamValues("ELDERLY")

    require.NoError(t, h.Fare(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"category":"ELDERLY","discount":0,"amount":5000}`, rec.Body.String())
}
