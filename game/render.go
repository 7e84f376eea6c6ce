package game

// Renderer consumes a snapshot after every tick. Returning false asks the
// evaluation loop to stop.
type Renderer interface {
	Render(s *Snapshot) bool
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(s *Snapshot) bool

// Render calls f(s).
func (f RendererFunc) Render(s *Snapshot) bool { return f(s) }

// MultiRenderer fans a snapshot out to several renderers. Every renderer sees
// every snapshot; the result is false if any of them asked to stop.
type MultiRenderer []Renderer

// Render implements Renderer.
func (m MultiRenderer) Render(s *Snapshot) bool {
	keep := true
	for _, r := range m {
		if r == nil {
			continue
		}
		if !r.Render(s) {
			keep = false
		}
	}
	return keep
}
