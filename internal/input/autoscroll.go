package input

// autoscrollBlocker swallows middle-button presses at the document root so
// the platform's middle-click autoscroll does not fight middle-button panning
type autoscrollBlocker struct {
	doc      Document
	active   bool
	previous MouseDownFilter
}

func (a *autoscrollBlocker) set(active bool) {
	if a.doc == nil || active == a.active {
		return
	}
	if active {
		a.previous = a.doc.MouseDownFilter()
		prev := a.previous
		a.doc.SetMouseDownFilter(func(b Button) bool {
			if b == ButtonMiddle {
				return false
			}
			if prev != nil {
				return prev(b)
			}
			return true
		})
	} else {
		a.doc.SetMouseDownFilter(a.previous)
		a.previous = nil
	}
	a.active = active
}
