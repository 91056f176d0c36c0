package lut

import "strings"

// Preset is a named viewing window, as carried by Window Center & Width Explanation (0028,1055)
type Preset struct {
	Name        string
	Modality    string
	Window      WindowSpec
	Explanation string
}

// Presets are the common viewing windows for CT and DX
var Presets = []Preset{
	{Name: "soft_tissue", Modality: "CT", Window: WindowSpec{Center: 40, Width: 400}, Explanation: "SOFT_TISSUE"},
	{Name: "bone", Modality: "CT", Window: WindowSpec{Center: 400, Width: 2000}, Explanation: "BONE"},
	{Name: "lung", Modality: "CT", Window: WindowSpec{Center: -600, Width: 1500}, Explanation: "LUNG"},
	{Name: "brain", Modality: "CT", Window: WindowSpec{Center: 50, Width: 350}, Explanation: "BRAIN"},
	{Name: "dx_default", Modality: "DX", Window: WindowSpec{Center: 32768, Width: 65535}, Explanation: "DEFAULT"},
}

// PresetWindow finds a preset by name, ignoring case
func PresetWindow(name string) (WindowSpec, error) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p.Window, nil
		}
	}
	return WindowSpec{}, &NotFoundError{Kind: "preset", Name: name}
}

// PresetsFor returns the presets for a modality such as "CT"
func PresetsFor(modality string) []Preset {
	var out []Preset
	for _, p := range Presets {
		if strings.EqualFold(p.Modality, modality) {
			out = append(out, p)
		}
	}
	return out
}
