package palette

import (
	"image/color"
	"sort"
)

// Palette names in the default registry
const (
	Plain        = "plain"
	InvPlain     = "invPlain"
	Rainbow      = "rainbow"
	Hot          = "hot"
	HotIron      = "hot_iron"
	Pet          = "pet"
	HotMetalBlue = "hot_metal_blue"
	Pet20Step    = "pet_20step"
	Test         = "test"
)

// Palette is a named red/green/blue curve triple
type Palette struct {
	Name  string `json:"name"`
	Red   Curve  `json:"red"`
	Green Curve  `json:"green"`
	Blue  Curve  `json:"blue"`
}

// RGBA maps an intensity to an opaque color
func (p Palette) RGBA(i uint8) color.RGBA {
	return color.RGBA{R: p.Red[i], G: p.Green[i], B: p.Blue[i], A: 0xff}
}

// Color expands the palette into a 256 entry color.Palette for paletted images
func (p Palette) Color() color.Palette {
	cp := make(color.Palette, RangeMax)
	for i := range cp {
		cp[i] = p.RGBA(uint8(i))
	}
	return cp
}

// Registry is a read-only catalog of palettes keyed by name
type Registry struct {
	palettes map[string]Palette
}

// NewRegistry indexes palettes by name; later entries replace earlier ones of the same name
func NewRegistry(palettes ...Palette) *Registry {
	r := &Registry{palettes: make(map[string]Palette, len(palettes))}
	for _, p := range palettes {
		r.palettes[p.Name] = p
	}
	return r
}

// Get returns the named palette or a *NotFoundError
func (r *Registry) Get(name string) (Palette, error) {
	p, ok := r.palettes[name]
	if !ok {
		return Palette{}, &NotFoundError{Kind: "palette", Name: name}
	}
	return p, nil
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.palettes))
	for n := range r.palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default holds the standard display palettes
var Default = NewRegistry(
	Palette{Name: Plain, Red: Build(ID), Green: Build(ID), Blue: Build(ID)},
	Palette{Name: InvPlain, Red: Build(InvID), Green: Build(InvID), Blue: Build(InvID)},
	Palette{Name: Rainbow, Red: rainbowRed, Green: rainbowGreen, Blue: rainbowBlue},
	Palette{Name: Hot, Red: Build(ToMaxFirstThird), Green: Build(ToMaxSecondThird), Blue: Build(ToMaxThirdThird)},
	Palette{Name: HotIron, Red: hotIronRed, Green: hotIronGreen, Blue: hotIronBlue},
	Palette{Name: Pet, Red: petRed, Green: petGreen, Blue: petBlue},
	Palette{Name: HotMetalBlue, Red: hotMetalBlueRed, Green: hotMetalBlueGreen, Blue: hotMetalBlueBlue},
	Palette{Name: Pet20Step, Red: pet20StepRed, Green: pet20StepGreen, Blue: pet20StepBlue},
	Palette{Name: Test, Red: Build(ID), Green: Build(Zero), Blue: Build(Zero)},
)

// Get looks up name in the Default registry
func Get(name string) (Palette, error) {
	return Default.Get(name)
}
