package bus

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tailscale.com/tsweb"
)

// AttachAdminRoute registers a debug route at /debug/<name> that dumps
// the hub's most recently published value as JSON. Mirrors the
// teacher's AttachAdminRoutes idiom of exposing live internal state
// through tailscale.com/tsweb's localhost/Tailscale-only debug mux.
func (h *Hub[T]) AttachAdminRoute(mux *http.ServeMux, debug tsweb.DebugHandler, name, description string) {
	debug.HandleFunc(name, description, func(w http.ResponseWriter, r *http.Request) {
		v, ok := h.Snapshot()
		if !ok {
			http.Error(w, fmt.Sprintf("%s: nothing published yet", name), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
