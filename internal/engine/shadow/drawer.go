package shadow

import (
	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/shader"
)

// PassKind tells a Drawer which pass it is drawing for, so one scene can
// serve several passes with different programs.
type PassKind int

const (
	// GeometryPass draws occluders into the shadow texture.
	GeometryPass PassKind = iota + 1
)

// String returns the pass name.
func (k PassKind) String() string {
	if k == GeometryPass {
		return "shadow-pass"
	}
	return "unknown"
}

// Drawer issues the scene draw calls for a pass. program is already bound
// with the light transforms set; a drawer only sets per-object uniforms
// (such as "model") and draws.
type Drawer interface {
	DrawGeometry(program *shader.Program, kind PassKind) error
}

// DrawerFunc adapts a function to the Drawer interface.
type DrawerFunc func(program *shader.Program, kind PassKind) error

// DrawGeometry calls f.
func (f DrawerFunc) DrawGeometry(program *shader.Program, kind PassKind) error {
	return f(program, kind)
}

// DrawIndexed enables depth testing and draws count indices from the bound
// vertex array. Drawers without their own mesh type can use it for each
// object.
func DrawIndexed(dev gpu.Device, count int32) {
	dev.Enable(gpu.DepthTest)
	dev.DrawElements(count)
}
