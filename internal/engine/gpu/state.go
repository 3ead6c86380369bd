package gpu

// The helpers below capture a piece of device state and return a closure
// that puts it back. Callers defer the closure so the state is restored on
// every exit path, including errors and panics from draw callbacks.

// SaveViewport returns a function restoring the current viewport.
func SaveViewport(d Device) func() {
	prev := d.Viewport()
	return func() {
		d.SetViewport(prev)
	}
}

// WithViewport sets the viewport to r and returns a function restoring the
// previous one.
func WithViewport(d Device, r Rect) func() {
	restore := SaveViewport(d)
	d.SetViewport(r)
	return restore
}

// SaveCapability returns a function restoring the current enabled state of c.
func SaveCapability(d Device, c Capability) func() {
	enabled := d.IsEnabled(c)
	return func() {
		if enabled {
			d.Enable(c)
		} else {
			d.Disable(c)
		}
	}
}

// Disabled disables c and returns a function restoring its prior state.
func Disabled(d Device, c Capability) func() {
	restore := SaveCapability(d, c)
	d.Disable(c)
	return restore
}

// WithClearColor sets the clear color and returns a function restoring the
// previous one.
func WithClearColor(d Device, rgba [4]float32) func() {
	prev := d.ClearColor()
	d.SetClearColor(rgba)
	return func() {
		d.SetClearColor(prev)
	}
}

// Viewport returns a rectangle anchored at the origin.
func Viewport(width, height int) Rect {
	return Rect{Width: int32(width), Height: int32(height)}
}
