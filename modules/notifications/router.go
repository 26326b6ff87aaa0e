package notifications

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/bracketforge/notify/pkg/devicetoken"
	"github.com/bracketforge/notify/pkg/notifier"
	"github.com/bracketforge/notify/pkg/subscriptions"
)

// RouterOptions carries the services the notifications module exposes over
// HTTP. Engine is optional: without it the publish endpoint is not mounted,
// for deployments where only the scheduler may trigger fan-out.
type RouterOptions struct {
	Tokens        *devicetoken.Registry
	Subscriptions *subscriptions.Service
	Engine        *notifier.Engine
	Logger        *slog.Logger
}

// Router creates the notifications module router.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/notifications", notifications.Router(notifications.RouterOptions{
//	    Tokens:        registry,
//	    Subscriptions: subs,
//	    Engine:        engine,
//	}))
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	if opts.Tokens != nil {
		h := &deviceTokenHandler{tokens: opts.Tokens, logger: log}
		r.Post("/device-tokens", h.register)
		r.Delete("/device-tokens", h.disable)
		r.Delete("/device-tokens/all", h.disableAll)
	}

	if opts.Subscriptions != nil {
		h := &subscriptionHandler{subs: opts.Subscriptions, logger: log}
		r.Get("/subscriptions", h.list)
		r.Post("/subscriptions", h.subscribe)
		r.Put("/subscriptions/categories", h.setCategories)
		r.Delete("/subscriptions", h.unsubscribe)
	}

	if opts.Engine != nil {
		h := &publishHandler{engine: opts.Engine, logger: log}
		r.Post("/publish", h.publish)
	}

	return r
}
