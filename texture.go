package fontstash

import (
	"math"
	"sync"

	"github.com/gogpu/gputypes"
)

// MaxTransformTextureSize bounds each side of a transform texture.
const MaxTransformTextureSize = 8192

// TransformTexture is the CPU copy of the transform texture: an RGBA8 image
// in which id k owns texels (2k mod W, floor(2k/W)) and its right neighbour.
// Writes mark rows dirty so an uploader can copy only what changed.
//
// TransformTexture is safe for concurrent use.
type TransformTexture struct {
	mu sync.RWMutex

	width, height int
	pix           []byte

	filter gputypes.FilterMode

	used []bool
	free []int
	next int

	dirtyMin, dirtyMax int
}

// NewTransformTexture creates a w x h transform texture. w must be even so
// that texel pairs never wrap across rows.
func NewTransformTexture(w, h int) (*TransformTexture, error) {
	switch {
	case w <= 0 || h <= 0:
		return nil, &SizeError{What: "transform texture", Width: w, Height: h, Reason: "must be positive"}
	case w%2 != 0:
		return nil, &SizeError{What: "transform texture", Width: w, Height: h, Reason: "width must be even"}
	case w > MaxTransformTextureSize || h > MaxTransformTextureSize:
		return nil, &SizeError{What: "transform texture", Width: w, Height: h, Reason: "exceeds 8192"}
	}
	return &TransformTexture{
		width:    w,
		height:   h,
		pix:      make([]byte, w*h*4),
		filter:   gputypes.FilterModeNearest,
		used:     make([]bool, w*h/2),
		dirtyMin: h,
		dirtyMax: -1,
	}, nil
}

// Width returns the texture width in texels.
func (t *TransformTexture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *TransformTexture) Height() int { return t.height }

// Size returns the texture size as the u_tresolution uniform.
func (t *TransformTexture) Size() Vec2 {
	return Vec2{X: float64(t.width), Y: float64(t.height)}
}

// Capacity returns the number of ids the texture can hold.
func (t *TransformTexture) Capacity() int {
	return t.width * t.height / 2
}

// Alloc reserves an unused id. Freed ids are reused first.
func (t *TransformTexture) Alloc() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.used[id] = true
		return id, nil
	}
	if t.next >= len(t.used) {
		return 0, ErrTextureFull
	}
	id := t.next
	t.next++
	t.used[id] = true
	return id, nil
}

// Free releases id and clears its texels. Freeing an id that is not in use
// does nothing.
func (t *TransformTexture) Free(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id < 0 || id >= len(t.used) || !t.used[id] {
		return
	}
	t.used[id] = false
	t.free = append(t.free, id)
	t.writeLocked(id, Texel{}, Texel{})
}

// InUse reports whether id is allocated.
func (t *TransformTexture) InUse(id int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return id >= 0 && id < len(t.used) && t.used[id]
}

// Set encodes tr for a render target of the given resolution and stores it
// at id. The id does not need to come from Alloc.
func (t *TransformTexture) Set(id int, tr Transform, resolution Vec2) error {
	if id < 0 || id >= t.Capacity() {
		return ErrIDOutOfRange
	}
	coarse, correction := EncodeTransform(tr, resolution)

	t.mu.Lock()
	t.writeLocked(id, coarse, correction)
	t.mu.Unlock()
	return nil
}

// Get decodes the transform stored at id.
func (t *TransformTexture) Get(id int, resolution Vec2) (Transform, error) {
	coarse, correction, err := t.Texels(id)
	if err != nil {
		return Transform{}, err
	}
	return DecodeTransform(coarse.Vec4(), correction.Vec4(), resolution), nil
}

// Texels returns the coarse and correction texels of id.
func (t *TransformTexture) Texels(id int) (coarse, correction Texel, err error) {
	if id < 0 || id >= t.Capacity() {
		return Texel{}, Texel{}, ErrIDOutOfRange
	}
	i, j := GlyphCell(id, t.width)

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.texelLocked(i, j), t.texelLocked(i+1, j), nil
}

func (t *TransformTexture) writeLocked(id int, coarse, correction Texel) {
	i, j := GlyphCell(id, t.width)
	off := (j*t.width + i) * 4
	copy(t.pix[off:off+8], []byte{
		coarse.R, coarse.G, coarse.B, coarse.A,
		correction.R, correction.G, correction.B, correction.A,
	})
	if j < t.dirtyMin {
		t.dirtyMin = j
	}
	if j > t.dirtyMax {
		t.dirtyMax = j
	}
}

func (t *TransformTexture) texelLocked(i, j int) Texel {
	off := (j*t.width + i) * 4
	return Texel{R: t.pix[off], G: t.pix[off+1], B: t.pix[off+2], A: t.pix[off+3]}
}

// Sample point-samples the texture at uv with clamp-to-edge addressing,
// the way a nearest sampler does.
func (t *TransformTexture) Sample(uv Vec2) Vec4 {
	i := nearestIndex(uv.X, t.width)
	j := nearestIndex(uv.Y, t.height)

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.texelLocked(i, j).Vec4()
}

func nearestIndex(u float64, n int) int {
	if math.IsNaN(u) {
		return 0
	}
	i := int(math.Floor(u * float64(n)))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Dirty returns the half-open row range [first, last) written since the last
// ClearDirty. ok is false when nothing changed.
func (t *TransformTexture) Dirty() (first, last int, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.dirtyMax < t.dirtyMin {
		return 0, 0, false
	}
	return t.dirtyMin, t.dirtyMax + 1, true
}

// ClearDirty marks the texture as uploaded.
func (t *TransformTexture) ClearDirty() {
	t.mu.Lock()
	t.dirtyMin, t.dirtyMax = t.height, -1
	t.mu.Unlock()
}

// TakeDirty returns a copy of the rows written since the last upload and
// clears the dirty range under the same lock, so a concurrent Set is either
// in pix or marked dirty again.
func (t *TransformTexture) TakeDirty() (first, last int, pix []byte, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dirtyMax < t.dirtyMin {
		return 0, 0, nil, false
	}
	first, last = t.dirtyMin, t.dirtyMax+1
	stride := t.width * 4
	pix = make([]byte, (last-first)*stride)
	copy(pix, t.pix[first*stride:last*stride])
	t.dirtyMin, t.dirtyMax = t.height, -1
	return first, last, pix, true
}

// MarkDirty adds the rows [first, last) to the dirty range, for example
// after a failed upload.
func (t *TransformTexture) MarkDirty(first, last int) {
	first = max(first, 0)
	last = min(last, t.height)
	if last <= first {
		return
	}
	t.mu.Lock()
	t.dirtyMin = min(t.dirtyMin, first)
	t.dirtyMax = max(t.dirtyMax, last-1)
	t.mu.Unlock()
}

// Pix returns a copy of the rows [first, last) in RGBA8 order, 4*Width bytes
// per row.
func (t *TransformTexture) Pix(first, last int) []byte {
	if first < 0 {
		first = 0
	}
	if last > t.height {
		last = t.height
	}
	if last <= first {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	stride := t.width * 4
	out := make([]byte, (last-first)*stride)
	copy(out, t.pix[first*stride:last*stride])
	return out
}

// Filter returns the filter mode the texture is to be sampled with.
func (t *TransformTexture) Filter() gputypes.FilterMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filter
}

// SetFilter records the filter mode an uploader should use. Anything other
// than nearest is rejected by ValidateFilter.
func (t *TransformTexture) SetFilter(f gputypes.FilterMode) {
	t.mu.Lock()
	t.filter = f
	t.mu.Unlock()
}

// ValidateFilter returns ErrLinearTransformFilter unless the texture is set
// up for nearest filtering. The texel-center coordinates of the vertex
// program only land on a single texel with point sampling.
func (t *TransformTexture) ValidateFilter() error {
	return ValidateTransformFilter(t.Filter(), t.Filter())
}

// ValidateTransformFilter checks the min and mag filters of a sampler meant
// for the transform texture.
func ValidateTransformFilter(minFilter, magFilter gputypes.FilterMode) error {
	if minFilter != gputypes.FilterModeNearest || magFilter != gputypes.FilterModeNearest {
		return ErrLinearTransformFilter
	}
	return nil
}
