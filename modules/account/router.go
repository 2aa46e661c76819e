package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount in the account module.
type RouterOptions struct {
	Users Mountable
}

// Router creates the account API router.
//
//	users := account.New(authSvc, tokens, account.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Mount("/", account.Router(account.RouterOptions{Users: users}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(api chi.Router) {
		if opts.Users != nil {
			api.Mount("/users", opts.Users.Handle())
		}
	})

	return r
}
