// handlers_auth.go - Login, registration and current-user handlers
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *credentialsRequest) validate() error {
	if r.Username == "" {
		return NewValidationError("username")
	}
	if r.Password == "" {
		return NewValidationError("password")
	}
	return nil
}

// HandleLogin exchanges credentials for a session with the cleaning service
func (h *Handler) HandleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	if err := h.remote.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		return err
	}

	fmt.Printf("[Auth] %s logged in\n", req.Username)

	resp := map[string]interface{}{
		"username": h.session.Username(),
	}
	if exp := h.session.ExpiresAt(); !exp.IsZero() {
		resp["expiresAt"] = exp.Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleRegister creates a new account on the cleaning service
func (h *Handler) HandleRegister(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	if err := h.remote.Register(c.Request().Context(), req.Username, req.Password); err != nil {
		return err
	}

	fmt.Printf("[Auth] %s registered\n", req.Username)
	return c.NoContent(http.StatusCreated)
}

// HandleMe returns the current principal as known by the cleaning service
func (h *Handler) HandleMe(c echo.Context) error {
	username, err := h.remote.Me(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"username": username})
}

// HandleLogout drops the stored credential without notifying expiry
// subscribers; the user chose to leave, nothing needs tearing down.
func (h *Handler) HandleLogout(c echo.Context) error {
	h.session.Clear()
	h.results.Clear()
	return c.NoContent(http.StatusNoContent)
}
