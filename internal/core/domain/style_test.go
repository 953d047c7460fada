package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStyle(t *testing.T) {
	type TestCase struct {
		description string
		input       string
		want        Style
		wantErr     bool
	}

	testCases := []TestCase{
		{description: "wire name", input: "neon", want: Neon},
		{description: "upper case", input: "Watercolor", want: Watercolor},
		{description: "oil paint with underscore", input: "oil_paint", want: OilPaint},
		{description: "oil paint with dash", input: "oil-paint", want: OilPaint},
		{description: "oil paint joined", input: "oilpaint", want: OilPaint},
		{description: "surrounding spaces", input: " pencil ", want: Pencil},
		{description: "unknown style", input: "ghibli", wantErr: true},
		{description: "empty", input: "", wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got, err := ParseStyle(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, ErrUnknownStyle)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestDefaultParameters(t *testing.T) {
	tests := []struct {
		style Style
		want  StyleParameters
	}{
		{style: Pencil, want: PencilParameters{BlurKernelSize: 21}},
		{style: Cartoon, want: CartoonParameters{BrightnessFactor: 1.0, DenoisingStrength: 0.75}},
		{style: Watercolor, want: WatercolorParameters{SigmaSpatial: 60, SigmaColor: 0.6}},
		{style: Neon, want: NeonParameters{CannyLow: 100, CannyHigh: 200, DilationKernel: 3}},
		{style: OilPaint, want: OilPaintParameters{BrightnessFactor: 1.0, Intensity: 50}},
	}

	for _, tc := range tests {
		t.Run(string(tc.style), func(t *testing.T) {
			got, err := DefaultParameters(tc.style)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.style, got.Style())
			assert.NoError(t, got.Validate())

			for _, spec := range got.Specs() {
				v, ok := got.Value(spec.Name)
				require.True(t, ok, spec.Name)
				assert.Equal(t, spec.Default, v, spec.Name)
			}
		})
	}

	_, err := DefaultParameters("ghibli")
	assert.ErrorIs(t, err, ErrUnknownStyle)
}

func TestPencilKernelNormalization(t *testing.T) {
	for k := 3; k < 99; k++ {
		fields := PencilParameters{BlurKernelSize: k}.Fields()
		require.Len(t, fields, 1)
		assert.Equal(t, "blur_kernel_size", fields[0].Name)

		want := k
		if k%2 == 0 {
			want = k + 1
		}
		assert.Equal(t, strconv.Itoa(want), fields[0].Value, "kernel size %d", k)
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name   string
		params StyleParameters
		want   []FormField
	}{
		{
			name:   "cartoon",
			params: CartoonParameters{BrightnessFactor: 1.0, DenoisingStrength: 0.75},
			want: []FormField{
				{Name: "brightness_factor", Value: "1"},
				{Name: "denoising_strength", Value: "0.75"},
			},
		},
		{
			name:   "watercolor",
			params: WatercolorParameters{SigmaSpatial: 60, SigmaColor: 0.6},
			want: []FormField{
				{Name: "watercolor_sigma_s", Value: "60"},
				{Name: "watercolor_sigma_r", Value: "0.6"},
			},
		},
		{
			name:   "neon",
			params: NeonParameters{CannyLow: 50, CannyHigh: 150, DilationKernel: 5},
			want: []FormField{
				{Name: "neon_canny_low_threshold", Value: "50"},
				{Name: "neon_canny_high_threshold", Value: "150"},
				{Name: "neon_dilation_kernel_size", Value: "5"},
			},
		},
		{
			name:   "oil paint reuses brightness factor",
			params: OilPaintParameters{BrightnessFactor: 1.5, Intensity: 70},
			want: []FormField{
				{Name: "brightness_factor", Value: "1.5"},
				{Name: "oil_paint_intensity", Value: "70"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.params.Fields())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  StyleParameters
		wantErr bool
	}{
		{name: "pencil lower bound", params: PencilParameters{BlurKernelSize: 3}},
		{name: "pencil even in range", params: PencilParameters{BlurKernelSize: 22}},
		{name: "pencil too small", params: PencilParameters{BlurKernelSize: 1}, wantErr: true},
		{name: "pencil too large", params: PencilParameters{BlurKernelSize: 101}, wantErr: true},
		{name: "cartoon brightness too high", params: CartoonParameters{BrightnessFactor: 2.5,
			DenoisingStrength: 0.5}, wantErr: true},
		{name: "cartoon denoising zero", params: CartoonParameters{BrightnessFactor: 1,
			DenoisingStrength: 0}, wantErr: true},
		{name: "watercolor ok", params: WatercolorParameters{SigmaSpatial: 100, SigmaColor: 0.1}},
		{name: "neon threshold above 255", params: NeonParameters{CannyLow: 0, CannyHigh: 256,
			DilationKernel: 1}, wantErr: true},
		{name: "neon dilation zero", params: NeonParameters{CannyLow: 0, CannyHigh: 255,
			DilationKernel: 0}, wantErr: true},
		{name: "oil paint intensity too low", params: OilPaintParameters{BrightnessFactor: 1,
			Intensity: 5}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrParameterOutOfRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithParameter(t *testing.T) {
	tests := []struct {
		name    string
		params  StyleParameters
		param   string
		value   float64
		want    StyleParameters
		wantErr error
	}{
		{
			name:   "neon low",
			params: NeonParameters{CannyLow: 100, CannyHigh: 200, DilationKernel: 3},
			param:  "low",
			value:  50,
			want:   NeonParameters{CannyLow: 50, CannyHigh: 200, DilationKernel: 3},
		},
		{
			name:   "by wire field name",
			params: OilPaintParameters{BrightnessFactor: 1, Intensity: 50},
			param:  "oil_paint_intensity",
			value:  90,
			want:   OilPaintParameters{BrightnessFactor: 1, Intensity: 90},
		},
		{
			name:   "float parameter",
			params: CartoonParameters{BrightnessFactor: 1, DenoisingStrength: 0.75},
			param:  "Brightness",
			value:  1.3,
			want:   CartoonParameters{BrightnessFactor: 1.3, DenoisingStrength: 0.75},
		},
		{
			name:    "unknown parameter",
			params:  PencilParameters{BlurKernelSize: 21},
			param:   "brightness",
			value:   1,
			wantErr: ErrUnknownParameter,
		},
		{
			name:    "out of range",
			params:  WatercolorParameters{SigmaSpatial: 60, SigmaColor: 0.6},
			param:   "sigma_r",
			value:   1.5,
			wantErr: ErrParameterOutOfRange,
		},
		{
			name:    "fraction for integer parameter",
			params:  NeonParameters{CannyLow: 100, CannyHigh: 200, DilationKernel: 3},
			param:   "dilation",
			value:   2.5,
			wantErr: ErrParameterOutOfRange,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := WithParameter(tc.params, tc.param, tc.value)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "low=100, high=200, dilation=3",
		Describe(NeonParameters{CannyLow: 100, CannyHigh: 200, DilationKernel: 3}))
	assert.Equal(t, "brightness=1, denoising=0.75",
		Describe(CartoonParameters{BrightnessFactor: 1, DenoisingStrength: 0.75}))
}
