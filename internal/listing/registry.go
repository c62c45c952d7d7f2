package listing

// Registry holds the two ordered provider groups. Affiliate results are
// always merged ahead of fallback results, whatever order the calls
// complete in: affiliate revenue is prioritized in display.
//
// The registry is built once at startup from config and passed around
// explicitly so tests can substitute stub providers.
type Registry struct {
	Affiliate []Provider
	Fallback  []Provider
}
