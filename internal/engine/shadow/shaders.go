package shadow

import _ "embed"

// GeometryVertexShader transforms scene geometry into light space.
//
//go:embed shaders/shadow.vert
var GeometryVertexShader string

// GeometryFragmentShader writes linear light depth normalized by the far plane.
//
//go:embed shaders/shadow.frag
var GeometryFragmentShader string

// ClearFragmentShader resets every shadow texel to the far value.
//
//go:embed shaders/clear_shadowmap.frag
var ClearFragmentShader string
