package profile

// Profile defines which codecs a run measures and how.
type Profile struct {
	Name       string
	Codecs     []string // codec keys in run order
	Quality    int      // lossy encoding quality 1-100
	Iterations int      // timed rounds per operation
	Warmup     int      // untimed rounds before timing
}

// All is the codec list placeholder expanded to every registered codec.
const All = "*"

// DefaultName is used when no profile is requested.
const DefaultName = "default"

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:       "default",
		Codecs:     []string{"jpeg", "rapid-qoi", "qoi"},
		Quality:    100,
		Iterations: 1,
	},
	"lossless": {
		Name:       "lossless",
		Codecs:     []string{"rapid-qoi", "qoi", "png", "zstd", "lz4", "webp"},
		Quality:    100,
		Iterations: 1,
	},
	"all": {
		Name:       "all",
		Codecs:     []string{All},
		Quality:    100,
		Iterations: 1,
	},
	"soak": {
		Name:       "soak",
		Codecs:     []string{"jpeg", "rapid-qoi", "qoi"},
		Quality:    100,
		Iterations: 20,
		Warmup:     3,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p.clone()
	}
	p := profiles[DefaultName].clone()
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names returns the built-in profile names.
func Names() []string {
	return []string{"default", "lossless", "all", "soak"}
}

// ExpandCodecs returns the profile's codec list with All replaced by the
// given registered names.
func (p Profile) ExpandCodecs(registered []string) []string {
	var out []string
	for _, c := range p.Codecs {
		if c == All {
			out = append(out, registered...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p Profile) clone() Profile {
	p.Codecs = append([]string(nil), p.Codecs...)
	return p
}
