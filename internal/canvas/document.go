package canvas

import "github.com/bnema/zoompan/internal/input"

// Document is the root of the host page. Mouse-downs pass through its filter
// before reaching the platform's default handling.
type Document struct {
	filter input.MouseDownFilter
}

// MouseDownFilter implements input.Document
func (d *Document) MouseDownFilter() input.MouseDownFilter {
	return d.filter
}

// SetMouseDownFilter implements input.Document
func (d *Document) SetMouseDownFilter(f input.MouseDownFilter) {
	d.filter = f
}

// MouseDown runs b through the filter and reports whether the platform's
// default handling (autoscroll for the middle button) proceeds
func (d *Document) MouseDown(b input.Button) bool {
	if d.filter == nil {
		return true
	}
	return d.filter(b)
}
