// Package inspect serves a dev-time, read-only HTTP view of binder state:
// the live provider stacks, the waiting listener lists, and the cached
// declarations. The core registry itself carries no network surface — hosts
// opt into this inspector during development to watch wiring assemble and
// tear down as components come and go in a live scene.
//
//	GET /healthz       liveness probe
//	GET /bindings      provider stacks per abstract type
//	GET /listeners     updater / pending-injector counts per abstract type
//	GET /declarations  concrete types with a derived declaration
//
// The binder is not synchronized; hosts that run the update loop and the
// inspector concurrently should hand Handler a SnapshotSource that marshals
// snapshot calls onto the update thread.
package inspect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lodestone-games/binder/binding"
)

// SnapshotSource produces point-in-time binder state. *binding.Binder
// satisfies it directly.
type SnapshotSource interface {
	Snapshot() binding.Snapshot
}

type envelope map[string]any

// Handler builds the inspector's http.Handler over src.
func Handler(src SnapshotSource) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{"status": "ok"})
	})
	r.Get("/bindings", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{"data": orEmpty(src.Snapshot().Bindings)})
	})
	r.Get("/listeners", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{"data": orEmpty(src.Snapshot().Listeners)})
	})
	r.Get("/declarations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{"data": orEmpty(src.Snapshot().Declarations)})
	})
	return r
}

// Serve blocks, serving the inspector on addr. Intended to run on its own
// goroutine during development sessions.
func Serve(addr string, src SnapshotSource) error {
	return http.ListenAndServe(addr, Handler(src))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// orEmpty keeps JSON arrays as [] rather than null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
