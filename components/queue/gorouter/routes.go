package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	queue "github.com/goliatone/go-activation-queue/components/queue"
	"github.com/goliatone/go-activation-queue/components/queue/commands"
	"github.com/goliatone/go-activation-queue/components/queue/httpapi"
)

// Config wires go-router with the queue controller, command API, and hooks.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *queue.Controller
	API        httpapi.Executor
	Broadcast  *queue.BroadcastHook
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for queue endpoints.
type RouteConfig struct {
	HTML      string
	View      string
	Confirm   string
	Cancel    string
	Refresh   string
	Kpis      string
	Card      string
	DetailID  string
	Close     string
	WebSocket string
}

// Register mounts queue routes (HTML, JSON, REST, WebSocket) on a go-router
// router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/tech"
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.ViewPayload(ctx.Context())
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Post(routes.Confirm, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ConfirmActivationInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Confirm(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "confirmed"})
	}))

	r.Post(routes.Cancel, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.CancelActivationInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Cancel(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshQueueInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshing"})
	}))

	r.Post(routes.Kpis, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Kpis(ctx.Context()); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshing"})
	}))

	r.Post(routes.Card, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ApplyKpiCardInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Card(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "applied"})
	}))

	r.Get(routes.DetailID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if err := api.Details(ctx.Context(), commands.OpenDetailsInput{ID: id}); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "opened"})
	}))

	r.Post(routes.Close, router.WrapHandler(func(ctx router.Context) error {
		if err := api.CloseDetails(ctx.Context()); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *queue.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/activations"
	}
	if routes.View == "" {
		routes.View = "/activations/_view"
	}
	if routes.Confirm == "" {
		routes.Confirm = "/activations/confirm"
	}
	if routes.Cancel == "" {
		routes.Cancel = "/activations/cancel"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/activations/refresh"
	}
	if routes.Kpis == "" {
		routes.Kpis = "/activations/kpis"
	}
	if routes.Card == "" {
		routes.Card = "/activations/kpis/card"
	}
	if routes.DetailID == "" {
		routes.DetailID = "/activations/:id"
	}
	if routes.Close == "" {
		routes.Close = "/activations/details/close"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/activations/ws"
	}
	return routes
}
