package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eventmanager/entity"
)

type postUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s Server) PostUser(c echo.Context) error {
	var request postUserRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	user := entity.User{
		UserID: uuid.NewString(),
		Name:   request.Name,
		Email:  request.Email,
	}

	if err := s.usersRepo.Store(c.Request().Context(), user); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}
