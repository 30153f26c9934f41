// Package cookie tracks per-request cookie state and seals values for the client.
//
// A [Jar] is built from the incoming Cookie header. Reads see pending writes and
// deletions; only names that were changed are serialized by [Jar.Collect]:
//
//	jar := cookie.NewJar(r.Header.Get("Cookie"))
//	jar.Set("theme", "dark", cookie.WithMaxAge(24*time.Hour))
//	jar.Delete("legacy")
//	for _, v := range jar.Collect() {
//		w.Header().Add("Set-Cookie", v)
//	}
//
// Cookies default to Path=/, HttpOnly, SameSite=Strict and Secure. Development jars
// ([WithDevelopment]) drop the Secure default so cookies work over plain HTTP.
//
// # Sealing
//
// A [Sealer] encrypts values with AES-256-GCM under a key derived from a 32+ byte
// secret with HKDF-SHA256:
//
//	s, err := cookie.NewSealer(secret)
//	sealed, err := s.Seal("s_...")
//	plain, err := s.Open(sealed) // ErrDecrypt on tampering
package cookie
