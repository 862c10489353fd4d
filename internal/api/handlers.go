// handlers.go - Handler wiring shared by all endpoint files
package api

import (
	"github.com/dataclean-pro/gateway/internal/auth"
	"github.com/dataclean-pro/gateway/internal/client"
	"github.com/dataclean-pro/gateway/internal/config"
	"github.com/dataclean-pro/gateway/internal/history"
	"github.com/dataclean-pro/gateway/internal/presets"
	"github.com/dataclean-pro/gateway/internal/result"
	"github.com/dataclean-pro/gateway/internal/staging"
	"github.com/dataclean-pro/gateway/internal/storage"
	"github.com/dataclean-pro/gateway/internal/submit"
)

// Handler holds all endpoint dependencies.
type Handler struct {
	cfg       *config.AppConfig
	session   *auth.Session
	remote    *client.Client
	bytes     storage.Store
	staging   *staging.Store
	submitter *submit.Submitter
	results   *result.Store
	history   *history.View
	presets   []presets.Preset
	hub       *Hub
	version   string
}

// Dependencies holds everything needed to construct the Handler.
type Dependencies struct {
	Config    *config.AppConfig
	Session   *auth.Session
	Remote    *client.Client
	ByteStore storage.Store
	Staging   *staging.Store
	Submitter *submit.Submitter
	Results   *result.Store
	History   *history.View
	Presets   []presets.Preset
	Version   string
}

// NewHandler creates the shared handler and wires session teardown: when
// the remote service rejects the credential, staged selections and batch
// results are cleared and connected clients are notified.
func NewHandler(deps *Dependencies) *Handler {
	h := &Handler{
		cfg:       deps.Config,
		session:   deps.Session,
		remote:    deps.Remote,
		bytes:     deps.ByteStore,
		staging:   deps.Staging,
		submitter: deps.Submitter,
		results:   deps.Results,
		history:   deps.History,
		presets:   deps.Presets,
		hub:       NewHub(),
		version:   deps.Version,
	}

	deps.Session.OnExpiry(func() {
		h.results.Clear()
		h.hub.BroadcastSessionExpired()
	})

	return h
}
