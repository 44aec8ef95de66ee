package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"eventmanager/db/events"
	"eventmanager/entity"
)

type postEventRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	StartTime     time.Time `json:"start_time"`
	PriceAmount   int64     `json:"price_amount"`
	PriceCurrency string    `json:"price_currency"`
	TotalTickets  int       `json:"total_tickets"`
}

type eventResponse struct {
	EventID          string    `json:"event_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	StartTime        time.Time `json:"start_time"`
	PriceAmount      int64     `json:"price_amount"`
	PriceCurrency    string    `json:"price_currency"`
	TotalTickets     int       `json:"total_tickets"`
	AvailableTickets int       `json:"available_tickets"`
}

func toEventResponse(event entity.Event) eventResponse {
	return eventResponse{
		EventID:          event.EventID,
		Title:            event.Title,
		Description:      event.Description,
		Location:         event.Location,
		StartTime:        event.StartTime,
		PriceAmount:      event.PriceAmount,
		PriceCurrency:    event.PriceCurrency,
		TotalTickets:     event.TotalTickets,
		AvailableTickets: event.AvailableTickets,
	}
}

func (s Server) PostEvent(c echo.Context) error {
	var request postEventRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.TotalTickets < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "total tickets cannot be negative")
	}
	if request.PriceAmount < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price cannot be negative")
	}

	event := entity.Event{
		EventID:       uuid.NewString(),
		Title:         request.Title,
		Description:   request.Description,
		Location:      request.Location,
		StartTime:     request.StartTime,
		PriceAmount:   request.PriceAmount,
		PriceCurrency: request.PriceCurrency,
		TotalTickets:  request.TotalTickets,
		// a new event starts with the full pool available
		AvailableTickets: request.TotalTickets,
	}

	if err := s.eventsRepo.Store(c.Request().Context(), event); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toEventResponse(event))
}

func (s Server) GetEvents(c echo.Context) error {
	all, err := s.eventsRepo.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, lo.Map(all, func(event entity.Event, _ int) eventResponse {
		return toEventResponse(event)
	}))
}

func (s Server) GetEvent(c echo.Context) error {
	event, err := s.eventsRepo.Get(c.Request().Context(), c.Param("event_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toEventResponse(event))
}

func (s Server) PutEvent(c echo.Context) error {
	var request postEventRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.TotalTickets < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "total tickets cannot be negative")
	}

	startTime := sql.NullTime{Time: request.StartTime, Valid: !request.StartTime.IsZero()}

	event, err := s.eventsRepo.Update(c.Request().Context(), c.Param("event_id"), events.UpdateParams{
		Title:         request.Title,
		Description:   request.Description,
		Location:      request.Location,
		StartTime:     startTime,
		PriceAmount:   request.PriceAmount,
		PriceCurrency: request.PriceCurrency,
		TotalTickets:  request.TotalTickets,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toEventResponse(event))
}

func (s Server) DeleteEvent(c echo.Context) error {
	if err := s.eventsRepo.Delete(c.Request().Context(), c.Param("event_id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
