package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// waitTimeout bounds ?wait=true requests; the current view is returned when it expires.
const waitTimeout = 15 * time.Second

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, hub *dashboard.Hub, history weather.Store) {
	v1 := app.Group("/api/v1")

	v1.Get("/providers", func(c *fiber.Ctx) error {
		out := make([]providerSummary, 0, len(hub.Providers()))
		for _, s := range hub.Sessions() {
			v := s.View()
			out = append(out, providerSummary{
				Name:               v.Provider,
				RequiresCredential: v.RequiresCredential,
				State:              v.State,
			})
		}
		return c.JSON(out)
	})

	d := v1.Group("/dashboard/:provider")

	d.Get("/", withSession(hub, func(c *fiber.Ctx, s *dashboard.Session) error {
		return c.JSON(s.View())
	}))

	d.Get("/locations", withSession(hub, func(c *fiber.Ctx, s *dashboard.Session) error {
		return c.JSON(s.Registry().All())
	}))

	d.Post("/location", withSession(hub, func(c *fiber.Ctx, s *dashboard.Session) error {
		var req selectLocationRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		t, err := s.SelectLocation(c.UserContext(), req.Name)
		return respond(c, s, t, err)
	}))

	d.Post("/random", withSession(hub, func(c *fiber.Ctx, s *dashboard.Session) error {
		t, err := s.RandomLocation(c.UserContext())
		return respond(c, s, t, err)
	}))

	d.Post("/retry", withSession(hub, func(c *fiber.Ctx, s *dashboard.Session) error {
		t, err := s.Retry(c.UserContext())
		return respond(c, s, t, err)
	}))

	d.Post("/credential", withSession(hub, func(c *fiber.Ctx, s *dashboard.Session) error {
		var req credentialRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		t, err := s.SubmitCredential(c.UserContext(), req.Key)
		return respond(c, s, t, err)
	}))

	d.Delete("/credential", withSession(hub, func(c *fiber.Ctx, s *dashboard.Session) error {
		return respond(c, s, nil, s.RequestCredentialChange())
	}))

	v1.Get("/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := historyLocation(hub, req.Provider, req.City)
		if err != nil {
			return err
		}

		observations, err := history.GetRange(req.Provider, loc, req.From, req.To)
		if err != nil {
			return historyError(err)
		}

		return c.JSON(fiber.Map{
			"provider":     req.Provider,
			"location":     loc,
			"observations": observations,
		})
	})

	v1.Get("/history/latest", func(c *fiber.Ctx) error {
		req := latestQuery{Provider: c.Query("provider"), City: c.Query("city")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := historyLocation(hub, req.Provider, req.City)
		if err != nil {
			return err
		}

		obs, err := history.GetLatest(req.Provider, loc)
		if err != nil {
			return historyError(err)
		}
		return c.JSON(obs)
	})
}

// historyLocation finds the location history is recorded under. Ad-hoc
// locations are recorded under the name they were selected by.
func historyLocation(hub *dashboard.Hub, provider, city string) (weather.Location, error) {
	s, err := hub.Session(provider)
	if err != nil {
		return weather.Location{}, toFiberError(err)
	}
	if loc, ok := s.Registry().ByName(city); ok {
		return loc, nil
	}
	if cur := s.Location(); cur.Name == city {
		return cur, nil
	}
	return weather.Location{}, toFiberError(dashboard.ErrUnknownLocation)
}

func historyError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no weather history for requested location")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
}

type providerSummary struct {
	Name               string `json:"name"`
	RequiresCredential bool   `json:"requiresCredential"`
	State              string `json:"state"`
}

type selectLocationRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type credentialRequest struct {
	Key string `json:"key" validate:"required,max=256"`
}

func withSession(hub *dashboard.Hub, h func(*fiber.Ctx, *dashboard.Session) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := hub.Session(c.Params("provider"))
		if err != nil {
			return toFiberError(err)
		}
		return h(c, s)
	}
}

func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// respond maps err, optionally waits for t to settle, and renders the view.
func respond(c *fiber.Ctx, s *dashboard.Session, t *dashboard.Ticket, err error) error {
	if err != nil {
		return toFiberError(err)
	}
	if t != nil && c.QueryBool("wait") {
		ctx, cancel := context.WithTimeout(c.UserContext(), waitTimeout)
		defer cancel()
		_ = t.Wait(ctx)
	}
	return c.JSON(s.View())
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, dashboard.ErrUnknownProvider),
		errors.Is(err, dashboard.ErrUnknownLocation):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, dashboard.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, dashboard.ErrCredentialRequired):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

type latestQuery struct {
	Provider string `validate:"required"`
	City     string `validate:"required"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Provider string `validate:"required"`
	City     string `validate:"required"`
	From     time.Time
	To       time.Time `validate:"omitempty,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Provider = c.Query("provider")
	h.City = c.Query("city")

	if s := c.Query("from"); s != "" {
		from, err := parseTime(s)
		if err != nil {
			return err
		}
		h.From = from
	}
	if s := c.Query("to"); s != "" {
		to, err := parseTime(s)
		if err != nil {
			return err
		}
		h.To = to
	}
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
