package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Style is the preset name as understood by the conversion endpoint.
type Style string

const (
	Pencil     Style = "pencil"
	Cartoon    Style = "cartoon"
	Watercolor Style = "watercolor"
	Neon       Style = "neon"
	OilPaint   Style = "oil_paint"
)

// Styles lists every preset in display order.
var Styles = []Style{Pencil, Cartoon, Watercolor, Neon, OilPaint}

var styleTitles = map[Style]string{
	Pencil:     "Pencil Sketch",
	Cartoon:    "Cartoon",
	Watercolor: "Watercolor",
	Neon:       "Neon Glow",
	OilPaint:   "Oil Paint",
}

func (s Style) Title() string {
	if title, ok := styleTitles[s]; ok {
		return title
	}

	return string(s)
}

// ParseStyle accepts the wire name, case-insensitive, with "-" or " " in place of "_".
func ParseStyle(s string) (Style, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.NewReplacer("-", "_", " ", "_").Replace(name)

	for _, style := range Styles {
		if string(style) == name {
			return style, nil
		}
	}

	if name == "oilpaint" {
		return OilPaint, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}

// FormField is a single multipart field sent alongside the image.
type FormField struct {
	Name  string
	Value string
}

// ParameterSpec describes one tunable parameter of a preset.
type ParameterSpec struct {
	Name    string
	Field   string
	Label   string
	Min     float64
	Max     float64
	Step    float64
	Integer bool
	Default float64
}

func (p ParameterSpec) Format(v float64) string {
	if p.Integer {
		return strconv.Itoa(int(v))
	}

	return formatFloat(v)
}

func (p ParameterSpec) check(v float64) error {
	if math.IsNaN(v) || v < p.Min || v > p.Max {
		return fmt.Errorf("%w: %s must be between %s and %s", ErrParameterOutOfRange, p.Name,
			p.Format(p.Min), p.Format(p.Max))
	}

	if p.Integer && v != math.Trunc(v) {
		return fmt.Errorf("%w: %s must be a whole number", ErrParameterOutOfRange, p.Name)
	}

	return nil
}

// StyleParameters is the per-preset parameter set. Exactly one implementation is active per
// request and its Style decides the preset sent to the endpoint.
type StyleParameters interface {
	Style() Style
	// Specs returns the tunable parameters in display order.
	Specs() []ParameterSpec
	// Value returns the current value of the named parameter.
	Value(name string) (float64, bool)
	// Validate checks every parameter against its range.
	Validate() error
	// Fields returns the style specific form fields, normalized for transmission.
	Fields() []FormField
	with(name string, v float64) StyleParameters
}

var (
	pencilSpecs = []ParameterSpec{
		{Name: "blur", Field: "blur_kernel_size", Label: "Blur Kernel Size", Min: 3, Max: 99, Step: 2,
			Integer: true, Default: 21},
	}
	cartoonSpecs = []ParameterSpec{
		{Name: "brightness", Field: "brightness_factor", Label: "Brightness Factor", Min: 0.1, Max: 2.0,
			Step: 0.1, Default: 1.0},
		{Name: "denoising", Field: "denoising_strength", Label: "Denoising Strength", Min: 0.1, Max: 1.0,
			Step: 0.05, Default: 0.75},
	}
	watercolorSpecs = []ParameterSpec{
		{Name: "sigma_s", Field: "watercolor_sigma_s", Label: "Spatial Sigma", Min: 10, Max: 100, Step: 5,
			Integer: true, Default: 60},
		{Name: "sigma_r", Field: "watercolor_sigma_r", Label: "Color Sigma", Min: 0.1, Max: 1.0, Step: 0.05,
			Default: 0.6},
	}
	neonSpecs = []ParameterSpec{
		{Name: "low", Field: "neon_canny_low_threshold", Label: "Canny Low Threshold", Min: 0, Max: 255,
			Step: 5, Integer: true, Default: 100},
		{Name: "high", Field: "neon_canny_high_threshold", Label: "Canny High Threshold", Min: 0, Max: 255,
			Step: 5, Integer: true, Default: 200},
		{Name: "dilation", Field: "neon_dilation_kernel_size", Label: "Dilation Kernel Size", Min: 1, Max: 7,
			Step: 1, Integer: true, Default: 3},
	}
	oilPaintSpecs = []ParameterSpec{
		{Name: "brightness", Field: "brightness_factor", Label: "Brightness Factor", Min: 0.1, Max: 2.0,
			Step: 0.1, Default: 1.0},
		{Name: "intensity", Field: "oil_paint_intensity", Label: "Oil Paint Intensity", Min: 10, Max: 100,
			Step: 10, Integer: true, Default: 50},
	}
)

// DefaultParameters returns the documented defaults of a preset.
func DefaultParameters(style Style) (StyleParameters, error) {
	switch style {
	case Pencil:
		return PencilParameters{BlurKernelSize: 21}, nil
	case Cartoon:
		return CartoonParameters{BrightnessFactor: 1.0, DenoisingStrength: 0.75}, nil
	case Watercolor:
		return WatercolorParameters{SigmaSpatial: 60, SigmaColor: 0.6}, nil
	case Neon:
		return NeonParameters{CannyLow: 100, CannyHigh: 200, DilationKernel: 3}, nil
	case OilPaint:
		return OilPaintParameters{BrightnessFactor: 1.0, Intensity: 50}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, string(style))
	}
}

// SpecsFor returns the parameter specs of a preset.
func SpecsFor(style Style) ([]ParameterSpec, error) {
	params, err := DefaultParameters(style)
	if err != nil {
		return nil, err
	}

	return params.Specs(), nil
}

// WithParameter returns a copy of params with one parameter changed, after range checking it.
func WithParameter(params StyleParameters, name string, v float64) (StyleParameters, error) {
	spec, ok := findSpec(params.Specs(), name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParameter, params.Style(), name)
	}

	if err := spec.check(v); err != nil {
		return nil, err
	}

	return params.with(spec.Name, v), nil
}

func findSpec(specs []ParameterSpec, name string) (ParameterSpec, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, spec := range specs {
		if spec.Name == name || spec.Field == name {
			return spec, true
		}
	}

	return ParameterSpec{}, false
}

func validate(params StyleParameters) error {
	for _, spec := range params.Specs() {
		v, _ := params.Value(spec.Name)
		if err := spec.check(v); err != nil {
			return err
		}
	}

	return nil
}

// Describe renders the parameters as "name=value" pairs.
func Describe(params StyleParameters) string {
	parts := make([]string, 0, len(params.Specs()))
	for _, spec := range params.Specs() {
		v, _ := params.Value(spec.Name)
		parts = append(parts, spec.Name+"="+spec.Format(v))
	}

	return strings.Join(parts, ", ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type PencilParameters struct {
	BlurKernelSize int
}

func (p PencilParameters) Style() Style           { return Pencil }
func (p PencilParameters) Specs() []ParameterSpec { return pencilSpecs }
func (p PencilParameters) Validate() error        { return validate(p) }

func (p PencilParameters) Value(name string) (float64, bool) {
	if name == "blur" {
		return float64(p.BlurKernelSize), true
	}

	return 0, false
}

// NormalizedKernelSize is the kernel size sent to the endpoint. Gaussian blur needs an odd kernel.
func (p PencilParameters) NormalizedKernelSize() int {
	if p.BlurKernelSize%2 == 0 {
		return p.BlurKernelSize + 1
	}

	return p.BlurKernelSize
}

func (p PencilParameters) Fields() []FormField {
	return []FormField{{Name: "blur_kernel_size", Value: strconv.Itoa(p.NormalizedKernelSize())}}
}

func (p PencilParameters) with(name string, v float64) StyleParameters {
	if name == "blur" {
		p.BlurKernelSize = int(v)
	}

	return p
}

type CartoonParameters struct {
	BrightnessFactor  float64
	DenoisingStrength float64
}

func (p CartoonParameters) Style() Style           { return Cartoon }
func (p CartoonParameters) Specs() []ParameterSpec { return cartoonSpecs }
func (p CartoonParameters) Validate() error        { return validate(p) }

func (p CartoonParameters) Value(name string) (float64, bool) {
	switch name {
	case "brightness":
		return p.BrightnessFactor, true
	case "denoising":
		return p.DenoisingStrength, true
	}

	return 0, false
}

func (p CartoonParameters) Fields() []FormField {
	return []FormField{
		{Name: "brightness_factor", Value: formatFloat(p.BrightnessFactor)},
		{Name: "denoising_strength", Value: formatFloat(p.DenoisingStrength)},
	}
}

func (p CartoonParameters) with(name string, v float64) StyleParameters {
	switch name {
	case "brightness":
		p.BrightnessFactor = v
	case "denoising":
		p.DenoisingStrength = v
	}

	return p
}

type WatercolorParameters struct {
	SigmaSpatial int
	SigmaColor   float64
}

func (p WatercolorParameters) Style() Style           { return Watercolor }
func (p WatercolorParameters) Specs() []ParameterSpec { return watercolorSpecs }
func (p WatercolorParameters) Validate() error        { return validate(p) }

func (p WatercolorParameters) Value(name string) (float64, bool) {
	switch name {
	case "sigma_s":
		return float64(p.SigmaSpatial), true
	case "sigma_r":
		return p.SigmaColor, true
	}

	return 0, false
}

func (p WatercolorParameters) Fields() []FormField {
	return []FormField{
		{Name: "watercolor_sigma_s", Value: strconv.Itoa(p.SigmaSpatial)},
		{Name: "watercolor_sigma_r", Value: formatFloat(p.SigmaColor)},
	}
}

func (p WatercolorParameters) with(name string, v float64) StyleParameters {
	switch name {
	case "sigma_s":
		p.SigmaSpatial = int(v)
	case "sigma_r":
		p.SigmaColor = v
	}

	return p
}

type NeonParameters struct {
	CannyLow       int
	CannyHigh      int
	DilationKernel int
}

func (p NeonParameters) Style() Style           { return Neon }
func (p NeonParameters) Specs() []ParameterSpec { return neonSpecs }
func (p NeonParameters) Validate() error        { return validate(p) }

func (p NeonParameters) Value(name string) (float64, bool) {
	switch name {
	case "low":
		return float64(p.CannyLow), true
	case "high":
		return float64(p.CannyHigh), true
	case "dilation":
		return float64(p.DilationKernel), true
	}

	return 0, false
}

func (p NeonParameters) Fields() []FormField {
	return []FormField{
		{Name: "neon_canny_low_threshold", Value: strconv.Itoa(p.CannyLow)},
		{Name: "neon_canny_high_threshold", Value: strconv.Itoa(p.CannyHigh)},
		{Name: "neon_dilation_kernel_size", Value: strconv.Itoa(p.DilationKernel)},
	}
}

func (p NeonParameters) with(name string, v float64) StyleParameters {
	switch name {
	case "low":
		p.CannyLow = int(v)
	case "high":
		p.CannyHigh = int(v)
	case "dilation":
		p.DilationKernel = int(v)
	}

	return p
}

// OilPaintParameters shares the brightness_factor field with the cartoon preset.
type OilPaintParameters struct {
	BrightnessFactor float64
	Intensity        int
}

func (p OilPaintParameters) Style() Style           { return OilPaint }
func (p OilPaintParameters) Specs() []ParameterSpec { return oilPaintSpecs }
func (p OilPaintParameters) Validate() error        { return validate(p) }

func (p OilPaintParameters) Value(name string) (float64, bool) {
	switch name {
	case "brightness":
		return p.BrightnessFactor, true
	case "intensity":
		return float64(p.Intensity), true
	}

	return 0, false
}

func (p OilPaintParameters) Fields() []FormField {
	return []FormField{
		{Name: "brightness_factor", Value: formatFloat(p.BrightnessFactor)},
		{Name: "oil_paint_intensity", Value: strconv.Itoa(p.Intensity)},
	}
}

func (p OilPaintParameters) with(name string, v float64) StyleParameters {
	switch name {
	case "brightness":
		p.BrightnessFactor = v
	case "intensity":
		p.Intensity = int(v)
	}

	return p
}
