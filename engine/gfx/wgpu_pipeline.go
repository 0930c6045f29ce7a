package gfx

import (
	"hash/fnv"

	"github.com/cogentcore/webgpu/wgpu"
)

// pipelineKey identifies one cached render pipeline: the program, the packed
// state word, the vertex layout and the color target format together
// determine the full descriptor.
type pipelineKey struct {
	programID  uint32
	state      State
	layoutHash uint64
	format     wgpu.TextureFormat
}

// hashVertexLayout folds a layout into a stable cache key component.
func hashVertexLayout(layout VertexLayout) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put32 := func(v uint32) {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		h.Write(buf[:4])
	}
	put32(layout.Stride)
	for _, a := range layout.Attribs {
		put32(uint32(a.Format))
		put32(a.Offset)
	}
	return h.Sum64()
}

// wgpuCullMode maps the word's cull bits to a WebGPU cull mode. The front
// face is fixed counter-clockwise, so culling clockwise triangles means
// culling back faces and culling counter-clockwise triangles means culling
// front faces.
func wgpuCullMode(s State) wgpu.CullMode {
	switch s.CullFace() {
	case CullFaceCW:
		return wgpu.CullModeBack
	case CullFaceCCW:
		return wgpu.CullModeFront
	default:
		return wgpu.CullModeNone
	}
}

func wgpuDepthCompare(s State) wgpu.CompareFunction {
	switch s.DepthCompare() {
	case DepthCompareLess:
		return wgpu.CompareFunctionLess
	case DepthCompareLEqual:
		return wgpu.CompareFunctionLessEqual
	default:
		return wgpu.CompareFunctionAlways
	}
}

func wgpuWriteMask(s State) wgpu.ColorWriteMask {
	var mask wgpu.ColorWriteMask
	if s.WriteRGB() {
		mask |= wgpu.ColorWriteMaskRed | wgpu.ColorWriteMaskGreen | wgpu.ColorWriteMaskBlue
	}
	if s.WriteAlpha() {
		mask |= wgpu.ColorWriteMaskAlpha
	}
	return mask
}

func wgpuBlendState(s State) *wgpu.BlendState {
	switch s.BlendMode() {
	case BlendAlpha:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	case BlendAdd:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	default:
		return nil
	}
}

func wgpuVertexFormat(f AttribFormat) wgpu.VertexFormat {
	switch f {
	case AttribFloat:
		return wgpu.VertexFormatFloat32
	case AttribVec2:
		return wgpu.VertexFormatFloat32x2
	case AttribVec3:
		return wgpu.VertexFormatFloat32x3
	case AttribVec4:
		return wgpu.VertexFormatFloat32x4
	case AttribUByte4N:
		return wgpu.VertexFormatUnorm8x4
	default:
		return wgpu.VertexFormatFloat32
	}
}

func wgpuTextureFormat(f TextureFormat) wgpu.TextureFormat {
	switch f {
	case TexFormatBGRA8:
		return wgpu.TextureFormatBGRA8Unorm
	case TexFormatDepth24:
		return wgpu.TextureFormatDepth24Plus
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

// pipelineFor returns the cached render pipeline for the key, creating it on
// first use. The caller holds the device mutex.
func (d *wgpuDevice) pipelineFor(progID uint32, prog *wgpuProgram, state State, layout VertexLayout) (*wgpu.RenderPipeline, error) {
	key := pipelineKey{
		programID:  progID,
		state:      state,
		layoutHash: hashVertexLayout(layout),
		format:     d.targetFormat,
	}
	if p, ok := d.pipelines[key]; ok {
		return p, nil
	}

	attribs := make([]wgpu.VertexAttribute, len(layout.Attribs))
	for i, a := range layout.Attribs {
		attribs[i] = wgpu.VertexAttribute{
			Format:         wgpuVertexFormat(a.Format),
			Offset:         uint64(a.Offset),
			ShaderLocation: uint32(i),
		}
	}

	created, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  prog.desc.Name + " Render Pipeline",
		Layout: prog.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     prog.vs,
			EntryPoint: prog.vertexEntry,
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(layout.Stride),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes:  attribs,
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     prog.fs,
			EntryPoint: prog.fragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    d.targetFormat,
					Blend:     wgpuBlendState(state),
					WriteMask: wgpuWriteMask(state),
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpuCullMode(state),
		},
		Multisample: wgpu.MultisampleState{
			Count: d.sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: state.DepthWriteEnabled(),
			DepthCompare:      wgpuDepthCompare(state),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	d.pipelines[key] = created
	return created, nil
}
