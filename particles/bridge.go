package particles

import "fmt"

// Attribute names shared with the shading pipeline.
const (
	AttrPosition = "position"
	AttrColor    = "color"
	AttrSize     = "size"
	AttrLife     = "life"
)

// Attribute is one GPU vertex attribute backed by a pool array. Data
// aliases the pool; uploaders must copy it if they retain it.
type Attribute struct {
	Name       string
	Components int
	Data       []float32
	Dynamic    bool // rewritten every step (position, life)
}

// Uploader receives attribute buffers that changed since the last upload.
type Uploader interface {
	UploadAttribute(a Attribute) error
}

// UploadFunc adapts a function to Uploader.
type UploadFunc func(a Attribute) error

// UploadAttribute implements Uploader.
func (f UploadFunc) UploadAttribute(a Attribute) error {
	return f(a)
}

// Bridge tracks which pool buffers need re-uploading. Position and life
// change every productive step; color and size only change on
// construction or when a respawn picks up a new palette.
type Bridge struct {
	pool         *Pool
	dynamicDirty bool
	staticDirty  bool
}

// NewBridge wraps pool with every buffer marked dirty.
func NewBridge(pool *Pool) *Bridge {
	return &Bridge{pool: pool, dynamicDirty: true, staticDirty: true}
}

// Layout returns the attribute layout in binding order.
func (b *Bridge) Layout() []Attribute {
	p := b.pool
	return []Attribute{
		{Name: AttrPosition, Components: 3, Data: p.Positions, Dynamic: true},
		{Name: AttrColor, Components: 3, Data: p.Colors},
		{Name: AttrSize, Components: 1, Data: p.Sizes},
		{Name: AttrLife, Components: 1, Data: p.Life, Dynamic: true},
	}
}

// Count returns the number of vertices (particles) in each buffer.
func (b *Bridge) Count() int {
	return b.pool.Len()
}

// MarkDynamic flags position and life for upload.
func (b *Bridge) MarkDynamic() { b.dynamicDirty = true }

// MarkStatic flags color and size for upload.
func (b *Bridge) MarkStatic() { b.staticDirty = true }

// DynamicDirty reports whether position/life need uploading.
func (b *Bridge) DynamicDirty() bool { return b.dynamicDirty }

// StaticDirty reports whether color/size need uploading.
func (b *Bridge) StaticDirty() bool { return b.staticDirty }

// Upload sends each dirty attribute to u and clears both flags once all of
// them were accepted. On error the flags stay set so the next call retries.
// Returns the number of attributes sent.
func (b *Bridge) Upload(u Uploader) (int, error) {
	sent := 0
	for _, a := range b.Layout() {
		dirty := b.staticDirty
		if a.Dynamic {
			dirty = b.dynamicDirty
		}
		if !dirty {
			continue
		}
		if err := u.UploadAttribute(a); err != nil {
			return sent, fmt.Errorf("uploading %s: %w", a.Name, err)
		}
		sent++
	}
	b.dynamicDirty = false
	b.staticDirty = false
	return sent, nil
}
