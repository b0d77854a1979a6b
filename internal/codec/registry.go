package codec

import (
	"fmt"
	"strings"
)

// Registry holds every known codec in priority order.
type Registry struct {
	codecs map[string]Codec
	order  []string
}

// NewRegistry creates a registry with all built-in codecs.
func NewRegistry() *Registry {
	return NewRegistryWith(
		&JPEGCodec{},
		&JPEGGoCodec{},
		&RapidQOICodec{},
		&QOICodec{},
		&PNGCodec{},
		&ZstdCodec{},
		&LZ4Codec{},
		&WebPCodec{},
	)
}

// NewRegistryWith creates a registry from the given codecs. Later codecs
// with a duplicate name replace earlier ones but keep their position.
func NewRegistryWith(all ...Codec) *Registry {
	r := &Registry{codecs: make(map[string]Codec, len(all))}
	for _, c := range all {
		name := strings.ToLower(c.Name())
		if _, ok := r.codecs[name]; !ok {
			r.order = append(r.order, name)
		}
		r.codecs[name] = c
	}
	return r
}

// Get returns the codec registered under name, or nil.
func (r *Registry) Get(name string) Codec {
	return r.codecs[strings.ToLower(strings.TrimSpace(name))]
}

// Names returns every registered codec name in priority order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Available returns the names of codecs usable in this build.
func (r *Registry) Available() []string {
	var result []string
	for _, name := range r.order {
		if r.codecs[name].Available() {
			result = append(result, name)
		}
	}
	return result
}

// Resolve maps requested names to codecs, keeping the requested order and
// dropping duplicates. Unknown names are an error; known but unavailable
// codecs are returned in skipped.
func (r *Registry) Resolve(requested []string) (resolved []Codec, skipped []string, err error) {
	seen := map[string]bool{}
	for _, raw := range requested {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		c, ok := r.codecs[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknown, raw, strings.Join(r.order, ", "))
		}
		if !c.Available() {
			skipped = append(skipped, name)
			continue
		}
		resolved = append(resolved, c)
	}
	return resolved, skipped, nil
}

// String returns a summary of available codecs.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no codecs available"
	}
	return fmt.Sprintf("codecs: %s", strings.Join(avail, ", "))
}

// Codecs returns every registered codec in priority order, available or not.
func (r *Registry) Codecs() []Codec {
	out := make([]Codec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.codecs[name])
	}
	return out
}
