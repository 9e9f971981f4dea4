package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/storage"
	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"storage":   service.StorageType(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	app.Post("/ingest", func(c *fiber.Ctx) error {
		var req ingestRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if len(req.Records) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "no records provided")
		}

		stored, err := service.Ingest(req.Records)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{
			"message":  fmt.Sprintf("Successfully ingested %d records", stored),
			"count":    stored,
			"batch_id": uuid.NewString(),
		})
	})

	app.Get("/weather", func(c *fiber.Ctx) error {
		req := weatherQuery{
			City:  c.Query("city"),
			Mode:  c.Query("mode", "current"),
			Days:  c.QueryInt("days", 10),
			Start: c.Query("start"),
			End:   c.Query("end"),
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		switch req.Mode {
		case "current":
			rec, err := service.FetchCurrent(c.Context(), req.City)
			if err != nil {
				return httpError(err)
			}
			return c.JSON(fiber.Map{"city": rec.City, "record": rec, "mode": req.Mode})

		case "past":
			stored, err := service.FetchPast(c.Context(), req.City, req.Days)
			if err != nil {
				return httpError(err)
			}
			return c.JSON(fiber.Map{
				"city":   weather.CanonicalCity(req.City),
				"stored": stored,
				"mode":   req.Mode,
			})

		default: // historical, per the oneof validation
			stored, err := service.FetchHistorical(c.Context(), req.City, req.Start, req.End)
			if err != nil {
				return httpError(err)
			}
			return c.JSON(fiber.Map{
				"city":   weather.CanonicalCity(req.City),
				"stored": stored,
				"mode":   req.Mode,
				"start":  req.Start,
				"end":    req.End,
			})
		}
	})

	app.Get("/stats", func(c *fiber.Ctx) error {
		req := statsQuery{
			City: c.Query("city"),
			Days: c.QueryInt("days", 7),
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		stats, err := service.Stats(req.City, req.Days)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(stats)
	})

	app.Get("/history", func(c *fiber.Ctx) error {
		req := historyQuery{
			City:  c.Query("city"),
			Days:  c.QueryInt("days", 7),
			Start: c.Query("start"),
			End:   c.Query("end"),
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		history, err := service.History(weather.HistoryQuery{
			City:  req.City,
			Days:  req.Days,
			Start: req.Start,
			End:   req.End,
		})
		if err != nil {
			return httpError(err)
		}
		return c.JSON(history)
	})

	app.Get("/forecast", func(c *fiber.Ctx) error {
		req := forecastQuery{
			City:     c.Query("city"),
			Days:     c.QueryInt("days", 7),
			Lookback: c.QueryInt("lookback", 14),
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := service.Forecast(req.City, req.Days, req.Lookback)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(forecast)
	})

	app.Get("/cities", func(c *fiber.Ctx) error {
		cities, err := service.Cities()
		if err != nil {
			return httpError(err)
		}
		if cities == nil {
			cities = []string{}
		}
		return c.JSON(fiber.Map{"count": len(cities), "cities": cities})
	})
}

// ingestRequest is a batch of records; each is written individually.
type ingestRequest struct {
	Records []weather.Record `json:"records"`
}

type weatherQuery struct {
	City  string `validate:"required"`
	Mode  string `validate:"oneof=current past historical"`
	Days  int    `validate:"gte=1,lte=92"`
	Start string
	End   string
}

type statsQuery struct {
	City string
	Days int `validate:"gte=1,lte=365"`
}

type historyQuery struct {
	City  string
	Days  int `validate:"gte=1,lte=365"`
	Start string
	End   string
}

type forecastQuery struct {
	City     string `validate:"required"`
	Days     int    `validate:"gte=2,lte=7"`
	Lookback int    `validate:"gte=3"`
}

// httpError maps domain error kinds onto HTTP statuses. Anything unknown
// falls through to the central 500 handler with the error's message.
func httpError(err error) error {
	var (
		validationErr *weather.ValidationError
		upstreamErr   *weather.UpstreamError
		writeErr      *storage.WriteError
		readErr       *storage.ReadError
	)
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.As(err, &validationErr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &upstreamErr):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.As(err, &writeErr), errors.As(err, &readErr):
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	default:
		return err
	}
}
