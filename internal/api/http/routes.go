package httpapi

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/vorlif/spreak/localize"

	"github.com/i474232898/weather-dashboard/internal/export"
	"github.com/i474232898/weather-dashboard/internal/i18n"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

type handlers struct {
	service      *weather.Service
	translations *i18n.Registry
	now          func() time.Time
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, translations *i18n.Registry) {
	h := &handlers{service: service, translations: translations, now: time.Now}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	v1 := app.Group("/api/v1")
	v1.Get("/locations", h.locations)
	v1.Get("/locations/coordinates", h.coordinates)
	v1.Get("/weather/forecast", h.forecast)
	v1.Get("/weather/current", h.current)
	v1.Get("/climate", h.climate)
	v1.Get("/climate/latest", h.latestObservation)
	v1.Get("/climate/export", h.exportClimate)
	v1.Get("/air-quality", h.airQuality)
	v1.Get("/alerts", h.alerts)
	v1.Get("/news", h.news)
	v1.Get("/astronomy", h.astronomy)
}

// ErrorHandler renders errors as JSON and maps domain errors to status codes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	var fe *fiber.Error
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve),
		errors.Is(err, weather.ErrInvalidArgument),
		errors.Is(err, weather.ErrUnknownParameter),
		errors.Is(err, export.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, weather.ErrUnknownLocation),
		errors.Is(err, weather.ErrNotFound),
		errors.Is(err, weather.ErrNoData):
		return fiber.StatusNotFound
	case errors.Is(err, weather.ErrFetch):
		return fiber.StatusBadGateway
	case errors.Is(err, weather.ErrNoProviders):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// bindQuery parses the query string into q and validates it.
func bindQuery(c *fiber.Ctx, q any) error {
	if err := c.QueryParser(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return validate.Struct(q)
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	Location string `query:"location" validate:"required,max=120"`
	Lang     string `query:"lang"`
}

type forecastQuery struct {
	Location string `query:"location" validate:"required,max=120"`
	Lang     string `query:"lang"`
	Days     int    `query:"days" validate:"required,min=1,max=7"`
}

type climateQuery struct {
	Location string `query:"location" validate:"required,max=120"`
	From     string `query:"from" validate:"required,datetime=2006-01-02"`
	To       string `query:"to" validate:"required,datetime=2006-01-02"`
	Params   string `query:"params"`
	Format   string `query:"format" validate:"omitempty,oneof=csv json txt text"`
}

func (q climateQuery) dateRange() (weather.DateRange, error) {
	from, err := weather.ParseDate(q.From)
	if err != nil {
		return weather.DateRange{}, err
	}
	to, err := weather.ParseDate(q.To)
	if err != nil {
		return weather.DateRange{}, err
	}
	return weather.DateRange{Start: from, End: to}, nil
}

func (q climateQuery) parameters() ([]weather.Parameter, error) {
	if strings.TrimSpace(q.Params) == "" {
		return weather.AllParameters(), nil
	}
	params, err := weather.ParseParameters(strings.Split(q.Params, ","))
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return weather.AllParameters(), nil
	}
	return params, nil
}

type newsQuery struct {
	Lang string `query:"lang"`
}

type astronomyQuery struct {
	Location string `query:"location" validate:"required,max=120"`
	Date     string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *handlers) translator(lang string) *i18n.Translator {
	if h.translations == nil {
		return nil
	}
	return h.translations.Lookup(lang)
}

func (h *handlers) translate(lang, id string) string {
	if t := h.translator(lang); t != nil {
		return t.Get(localize.MsgID(id))
	}
	return id
}

func (h *handlers) locations(c *fiber.Ctx) error {
	return c.JSON(h.service.Locations())
}

func (h *handlers) coordinates(c *fiber.Ctx) error {
	var q locationQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	loc, err := h.service.ResolveLocation(c.UserContext(), q.Location)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"location":  loc,
		"latitude":  metrics.FormatDMS(loc.Latitude, metrics.Latitude),
		"longitude": metrics.FormatDMS(loc.Longitude, metrics.Longitude),
	})
}

type forecastResponse struct {
	weather.WeatherData
	ConditionText string `json:"conditionText"`
}

func (h *handlers) forecast(c *fiber.Ctx) error {
	var q forecastQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	data, err := h.service.Forecast(c.UserContext(), q.Location, q.Days)
	if err != nil {
		return err
	}
	return c.JSON(forecastResponse{
		WeatherData:   data,
		ConditionText: h.translate(q.Lang, string(data.Current.Condition)),
	})
}

func (h *handlers) current(c *fiber.Ctx) error {
	var q locationQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	data, err := h.service.Forecast(c.UserContext(), q.Location, 1)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"location":      data.Location,
		"current":       data.Current,
		"details":       data.Details,
		"conditionText": h.translate(q.Lang, string(data.Current.Condition)),
	})
}

func (h *handlers) climateReport(c *fiber.Ctx, q climateQuery) (weather.ClimateReport, []weather.Parameter, error) {
	dr, err := q.dateRange()
	if err != nil {
		return weather.ClimateReport{}, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	params, err := q.parameters()
	if err != nil {
		return weather.ClimateReport{}, nil, err
	}
	report, err := h.service.Climate(c.UserContext(), q.Location, dr, params)
	return report, params, err
}

func (h *handlers) climate(c *fiber.Ctx) error {
	var q climateQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	report, _, err := h.climateReport(c, q)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handlers) latestObservation(c *fiber.Ctx) error {
	var q locationQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	rec, err := h.service.LatestObservation(c.UserContext(), q.Location)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (h *handlers) exportClimate(c *fiber.Ctx) error {
	var q climateQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		return err
	}
	report, params, err := h.climateReport(c, q)
	if err != nil {
		return err
	}

	exportedAt := h.now().UTC()
	var buf bytes.Buffer
	err = export.Write(&buf, export.Request{
		Format:     format,
		Location:   report.Location,
		Records:    report.TimeSeries,
		Parameters: params,
		ExportedAt: exportedAt,
	})
	if err != nil {
		return err
	}

	c.Attachment(export.Filename(report.Location, format, exportedAt))
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(buf.Bytes())
}

type airQualityResponse struct {
	weather.AirQuality
	LabelText string `json:"labelText"`
}

func (h *handlers) airQuality(c *fiber.Ctx) error {
	var q locationQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	aq, err := h.service.AirQuality(c.UserContext(), q.Location)
	if err != nil {
		return err
	}
	return c.JSON(airQualityResponse{
		AirQuality: aq,
		LabelText:  h.translate(q.Lang, string(metrics.ClassifyAQI(aq.AQI).MsgID)),
	})
}

func (h *handlers) alerts(c *fiber.Ctx) error {
	var q locationQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	alerts, err := h.service.Alerts(c.UserContext(), q.Location)
	if err != nil {
		return err
	}
	for i := range alerts {
		alerts[i].Title = h.translate(q.Lang, alerts[i].Title)
	}
	return c.JSON(fiber.Map{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

type newsItem struct {
	weather.NewsArticle
	PublishedAgo string `json:"publishedAgo,omitempty"`
}

func (h *handlers) news(c *fiber.Ctx) error {
	var q newsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	articles, err := h.service.News(c.UserContext())
	if err != nil {
		return err
	}

	t := h.translator(q.Lang)
	items := make([]newsItem, 0, len(articles))
	for _, a := range articles {
		item := newsItem{NewsArticle: a}
		if t != nil && !a.PublishedAt.IsZero() {
			item.PublishedAgo = t.Ago(a.PublishedAt)
		}
		items = append(items, item)
	}
	return c.JSON(items)
}

func (h *handlers) astronomy(c *fiber.Ctx) error {
	var q astronomyQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	var day weather.Date
	if q.Date != "" {
		d, err := weather.ParseDate(q.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		day = d
	}
	a, err := h.service.Astronomy(c.UserContext(), q.Location, day)
	if err != nil {
		return err
	}
	return c.JSON(a)
}
