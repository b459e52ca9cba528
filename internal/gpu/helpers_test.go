//go:build !nogpu

package gpu

import (
	"sync"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/atlas"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// recordingDevice wraps a device and keeps the descriptors it was given.
type recordingDevice struct {
	hal.Device

	mu        sync.Mutex
	samplers  []hal.SamplerDescriptor
	layouts   []hal.BindGroupLayoutDescriptor
	pipelines []hal.RenderPipelineDescriptor
	textures  []hal.TextureDescriptor
	destroyed map[string]int
}

func newRecordingDevice(d hal.Device) *recordingDevice {
	return &recordingDevice{Device: d, destroyed: make(map[string]int)}
}

func (d *recordingDevice) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	d.mu.Lock()
	d.samplers = append(d.samplers, *desc)
	d.mu.Unlock()
	return d.Device.CreateSampler(desc)
}

func (d *recordingDevice) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	d.mu.Lock()
	d.layouts = append(d.layouts, *desc)
	d.mu.Unlock()
	return d.Device.CreateBindGroupLayout(desc)
}

func (d *recordingDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	d.mu.Lock()
	d.pipelines = append(d.pipelines, *desc)
	d.mu.Unlock()
	return &labeledPipeline{label: desc.Label}, nil
}

// labeledPipeline is a render pipeline that can be told apart from others.
// Noop resources are zero-sized and may share an address.
type labeledPipeline struct {
	label string
}

func (p *labeledPipeline) Destroy() {}

func (d *recordingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	d.mu.Lock()
	d.textures = append(d.textures, *desc)
	d.mu.Unlock()
	return d.Device.CreateTexture(desc)
}

func (d *recordingDevice) DestroyRenderPipeline(p hal.RenderPipeline) {
	d.count("pipeline")
	d.Device.DestroyRenderPipeline(p)
}

func (d *recordingDevice) DestroySampler(s hal.Sampler) {
	d.count("sampler")
	d.Device.DestroySampler(s)
}

func (d *recordingDevice) DestroyTexture(t hal.Texture) {
	d.count("texture")
	d.Device.DestroyTexture(t)
}

func (d *recordingDevice) count(kind string) {
	d.mu.Lock()
	d.destroyed[kind]++
	d.mu.Unlock()
}

// recordingQueue wraps a queue and keeps the texture writes it was given.
type recordingQueue struct {
	hal.Queue

	mu     sync.Mutex
	writes []textureWrite
}

type textureWrite struct {
	y, rows uint32
	bytes   int
}

func (q *recordingQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	q.mu.Lock()
	q.writes = append(q.writes, textureWrite{y: dst.Origin.Y, rows: size.Height, bytes: len(data)})
	q.mu.Unlock()
	return q.Queue.WriteTexture(dst, data, layout, size)
}

func (q *recordingQueue) reset() {
	q.mu.Lock()
	q.writes = nil
	q.mu.Unlock()
}

// recordingPass records the calls made on a render pass.
type recordingPass struct {
	hal.RenderPassEncoder

	pipeline   hal.RenderPipeline
	indexCount uint32
	format     gputypes.IndexFormat
	draws      int
}

func (p *recordingPass) SetPipeline(pipeline hal.RenderPipeline) { p.pipeline = pipeline }

func (p *recordingPass) SetBindGroup(uint32, hal.BindGroup, []uint32) {}

func (p *recordingPass) SetVertexBuffer(uint32, hal.Buffer, uint64) {}

func (p *recordingPass) SetIndexBuffer(_ hal.Buffer, format gputypes.IndexFormat, _ uint64) {
	p.format = format
}

func (p *recordingPass) DrawIndexed(indexCount, _, _ uint32, _ int32, _ uint32) {
	p.indexCount = indexCount
	p.draws++
}

func newTestAtlas(t *testing.T, text string) *atlas.Atlas {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		t.Fatal(err)
	}
	cfg := atlas.DefaultConfig()
	cfg.Size = 256
	a, err := atlas.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddFace(face, []rune(text)); err != nil {
		t.Fatal(err)
	}
	return a
}

// newTestScene returns an atlas, a 16x16 transform texture and one run per
// text, each with its own placed transform.
func newTestScene(t *testing.T, texts ...string) (*atlas.Atlas, *fontstash.TransformTexture, []*fontstash.Run) {
	t.Helper()
	all := ""
	for _, s := range texts {
		all += s
	}
	a := newTestAtlas(t, all)
	tt, err := fontstash.NewTransformTexture(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	res := fontstash.V2(320, 240)
	var runs []*fontstash.Run
	for i, s := range texts {
		id, err := tt.Alloc()
		if err != nil {
			t.Fatal(err)
		}
		if err := tt.Set(id, fontstash.Transform{X: 10, Y: float64(30 + 40*i), Alpha: 1}, res); err != nil {
			t.Fatal(err)
		}
		run, err := fontstash.NewRun(a, s, id)
		if err != nil {
			t.Fatal(err)
		}
		runs = append(runs, run)
	}
	return a, tt, runs
}

func testUniforms() GlyphUniforms {
	return GlyphUniforms{
		Proj:        fontstash.ScreenOrtho(320, 240),
		TResolution: fontstash.V2(16, 16),
		Resolution:  fontstash.V2(320, 240),
		SDF:         fontstash.DefaultSDFUniforms(),
	}
}
