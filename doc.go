// Package websession provides cookie-based session management for Go web
// applications: it maps an opaque session ID carried in an HTTP cookie to a
// durable server-side session record held in a pluggable key-value store.
//
// The package is storage-agnostic: any backend that satisfies the Store
// interface can be plugged in, either directly or through the named backend
// registry. A concurrent in-memory store ships out of the box; file, Redis,
// PostgreSQL and MongoDB backends live in their own subpackages and register
// themselves on import, database/sql style:
//
//	import _ "github.com/webstack-go/websession/filestore"
//
// # Architecture
//
// A Manager orchestrates the session life-cycle. It relies on a Transport to
// carry the session ID between client and server (an HTTP cookie by default)
// and on a Store to persist session state. Resolve is the per-request entry
// point: it extracts the ID from the incoming request, loads the matching
// record or creates a fresh one, refreshes the outgoing cookie, and hands the
// session to the caller. A cookie whose ID the store no longer recognizes is
// replaced by a deletion cookie and the request proceeds without a session;
// only genuine infrastructure failures surface as errors.
//
// Session mutations are buffered in memory and written back at an explicit
// flush boundary: Manager.Save, or automatically at end of request when the
// Middleware is installed and the session is dirty.
//
// # Usage
//
//	cookies, _ := cookie.New(nil)
//	manager, _ := websession.New(
//	    websession.WithCookieManager(cookies),
//	)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sess, err := manager.Resolve(r.Context(), w, r)
//	    if err != nil {
//	        http.Error(w, "session backend unavailable", http.StatusInternalServerError)
//	        return
//	    }
//	    if sess != nil {
//	        sess.Set("user", "alice")
//	        _ = manager.Save(r.Context(), sess)
//	    }
//	}
//
// Or let the middleware do the bookkeeping:
//
//	mux.Handle("/", manager.Middleware(appHandler))
//
// # Configuration
//
// All knobs are exposed through Option functions or an env-tagged Config
// struct (see DefaultConfig and LoadConfig). NewFromConfig resolves the
// configured backend name through the registry at startup.
package websession
