// Package view resolves the static presentation assets each game state
// contributes. The core never inspects snippet content; it only collects the
// names so the transport can hand every audience its full widget bundle up
// front and drive redraws over the websocket afterwards.
package view

// Snippets is a deduplicated, order-preserving collection of widget asset
// names for one audience (big screen, player screen or admin screen).
type Snippets struct {
	html []string
	js   []string
	css  []string
	seen map[string]struct{}
}

// NewSnippets returns an empty collection.
func NewSnippets() *Snippets {
	return &Snippets{seen: make(map[string]struct{})}
}

// add dedups per kind; the same name may legitimately exist as both a
// template and a script.
func (s *Snippets) add(dst *[]string, kind, name string) *Snippets {
	if name == "" {
		return s
	}
	key := kind + ":" + name
	if _, ok := s.seen[key]; ok {
		return s
	}
	s.seen[key] = struct{}{}
	*dst = append(*dst, name)
	return s
}

// AddHTML records an HTML template name.
func (s *Snippets) AddHTML(name string) *Snippets { return s.add(&s.html, "html", name) }

// AddJS records a client script name.
func (s *Snippets) AddJS(name string) *Snippets { return s.add(&s.js, "js", name) }

// AddCSS records a stylesheet name.
func (s *Snippets) AddCSS(name string) *Snippets { return s.add(&s.css, "css", name) }

// Merge folds other into s, keeping deduplication across both.
func (s *Snippets) Merge(other *Snippets) *Snippets {
	if other == nil {
		return s
	}
	for _, n := range other.html {
		s.add(&s.html, "html", n)
	}
	for _, n := range other.js {
		s.add(&s.js, "js", n)
	}
	for _, n := range other.css {
		s.add(&s.css, "css", n)
	}
	return s
}

// HTML lists the recorded template names in insertion order.
func (s *Snippets) HTML() []string { return append([]string(nil), s.html...) }

// JS lists the recorded script names in insertion order.
func (s *Snippets) JS() []string { return append([]string(nil), s.js...) }

// CSS lists the recorded stylesheet names in insertion order.
func (s *Snippets) CSS() []string { return append([]string(nil), s.css...) }
