package websession

import "net/http"

// Middleware resolves the request's session before handler dispatch and
// flushes dirty sessions afterwards. It is the hook a host application
// installs once per request chain:
//
//   - a resolved session lands in the request context (FromContext);
//   - a stale cookie leaves the request without a session and the response
//     with a deletion cookie — the handler still runs;
//   - a store failure aborts the request with 500, the host's error path.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.Resolve(r.Context(), w, r)
		if err != nil {
			http.Error(w, "session backend unavailable", http.StatusInternalServerError)
			return
		}

		if session == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))

		if session.Dirty() {
			_ = m.Save(r.Context(), session)
		}
	})
}

// RequireSession rejects requests that do not reference a live session. It
// never creates one; put it behind Middleware or pair it with an explicit
// Resolve during login.
func (m *Manager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.Get(r.Context(), r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}
