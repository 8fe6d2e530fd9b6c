// Package cookie wraps reading and writing HTTP cookies behind a Manager
// with sane defaults (Path=/, HttpOnly, SameSite=Lax) and functional options.
//
// Plain cookies work with a zero-argument Manager. When secrets are provided,
// SetSigned/GetSigned add HMAC-SHA256 integrity protection with multi-secret
// key rotation: values are always signed with the first secret and verified
// against all of them, so old cookies stay valid while a new key rolls out.
//
//	m, _ := cookie.New([]string{"at-least-32-characters-long-secret!!"})
//	_ = m.SetSigned(w, "sessionid", id, cookie.WithMaxAge(3600))
//	id, err := m.GetSigned(r, "sessionid")
//
// Deletion writes the conventional removal header: empty value, MaxAge -1 and
// an Expires timestamp in the past, which makes clients discard the cookie.
package cookie
