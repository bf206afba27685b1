package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Scheduler   *SchedulerHandler
	Preferences *PreferenceHandler
	History     *HistoryHandler
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Scheduler != nil {
		mux.HandleFunc("/scheduler/free-slots", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Scheduler.FreeSlots(w, r)
		})
		mux.HandleFunc("/scheduler/proposals", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Scheduler.Proposals(w, r)
		})
		mux.HandleFunc("/scheduler/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Scheduler.Sessions(w, r)
		})
		mux.HandleFunc("/scheduler/conflicts/resolve", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Scheduler.ResolveConflicts(w, r)
		})
	}

	if cfg.Preferences != nil {
		mux.HandleFunc("/preferences/", func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimPrefix(r.URL.Path, "/preferences/")
			if userID == "" || strings.Contains(userID, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithUserID(r.Context(), userID)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodGet:
				cfg.Preferences.Get(w, r)
			case http.MethodPut:
				cfg.Preferences.Update(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
	}

	if cfg.History != nil {
		mux.HandleFunc("/history/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/history/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			userID, suffix, _ := strings.Cut(rest, "/")
			if userID == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithUserID(r.Context(), userID)
			r = r.WithContext(ctx)

			switch suffix {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.History.List(w, r)
				case http.MethodPost:
					cfg.History.Record(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPost)
				}
			case "statistics":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.History.Statistics(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
