package effects

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/GoPoster/pkg/scene"
	"github.com/xob0t/GoPoster/pkg/theme"
)

func testTheme() theme.Theme {
	return theme.Theme{
		ID: "t",
		Colors: theme.Colors{
			Background: "#ffffff",
			Text:       "#111111",
			Title:      "#ff0000",
			Accent:     "#00ff00",
		},
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec theme.EffectSpec
		want Effect
	}{
		{theme.EffectSpec{Type: "shadow", Blur: 3, Opacity: 0.4, OffsetX: 1, OffsetY: 2}, Shadow{Blur: 3, Opacity: 0.4, OffsetX: 1, OffsetY: 2}},
		{theme.EffectSpec{Type: "drop-shadow", Color: "#000"}, Shadow{Color: "#000"}},
		{theme.EffectSpec{Type: "glow", Intensity: 2, Spread: 5, Color: "#fff"}, Glow{Intensity: 2, Spread: 5, Color: "#fff"}},
		{theme.EffectSpec{Type: "Outline", Width: 3, Targets: []string{"title"}}, Outline{Width: 3, Sections: []string{"title"}}},
		{theme.EffectSpec{Type: "gradient_fill", Colors: []string{"#f00", "#00f"}, Angle: 45}, GradientFill{Colors: []string{"#f00", "#00f"}, Angle: 45}},
		{theme.EffectSpec{Type: "gradient", Gradient: theme.GradientRadial}, GradientFill{Shape: theme.GradientRadial}},
	}

	for _, tt := range tests {
		t.Run(tt.spec.Type, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnknown(t *testing.T) {
	t.Parallel()

	_, err := Parse(theme.EffectSpec{Type: "sparkle"})
	require.ErrorIs(t, err, ErrUnknownEffect)
	assert.Contains(t, err.Error(), "sparkle")
}

func TestParseAllSkipsUnknownWithWarning(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	list := ParseAll([]theme.EffectSpec{
		{Type: "shadow"},
		{Type: "sparkle"},
		{Type: "glow"},
	}, zerolog.New(&buf))

	require.Len(t, list, 2)
	assert.Equal(t, KindShadow, list[0].Kind())
	assert.Equal(t, KindGlow, list[1].Kind())
	assert.Contains(t, buf.String(), `"effect":"sparkle"`)
}

func TestGenerateIDsAndTargets(t *testing.T) {
	t.Parallel()

	set := Generate([]Effect{
		Shadow{Blur: 2},
		Glow{Intensity: 2.6, Sections: []string{"title"}},
		Outline{Width: 3, Color: "#0000ff", Sections: []string{"content"}},
		GradientFill{Sections: []string{"title"}},
	}, testTheme())

	require.Len(t, set.Defs.Filters, 3)
	require.Len(t, set.Defs.Paints, 1)
	assert.Equal(t, "fx-shadow-0", set.Defs.Filters[0].ID)
	assert.Equal(t, "fx-glow-1", set.Defs.Filters[1].ID)
	assert.Equal(t, "fx-outline-2", set.Defs.Filters[2].ID)
	assert.Equal(t, "fx-gradientFill-3", set.Defs.Paints[0].ID)

	assert.Equal(t, []string{"fx-shadow-0", "fx-glow-1"}, set.FiltersFor("title"))
	assert.Equal(t, []string{"fx-shadow-0", "fx-outline-2"}, set.FiltersFor("content"))
	assert.Nil(t, set.FiltersFor("footer"))
	assert.Equal(t, "fx-gradientFill-3", set.PaintFor("title"))
	assert.Equal(t, "", set.PaintFor("content"))
}

func TestGenerateResolvesThemeColors(t *testing.T) {
	t.Parallel()

	set := Generate([]Effect{Shadow{}, Glow{}, Outline{Color: "not-a-color"}, GradientFill{}}, testTheme())

	shadow := set.Defs.Filters[0]
	assert.Equal(t, color.RGBA{A: 255}, shadow.Color)
	assert.InDelta(t, 0.5, shadow.Opacity, 1e-9)
	assert.InDelta(t, 4, shadow.Blur, 1e-9)

	glow := set.Defs.Filters[1]
	assert.Equal(t, scene.FilterGlow, glow.Kind)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, glow.Color)
	assert.Equal(t, 1, glow.Intensity)

	outline := set.Defs.Filters[2]
	assert.Equal(t, color.RGBA{G: 255, A: 255}, outline.Color)
	assert.InDelta(t, 2, outline.Radius, 1e-9)

	paint := set.Defs.Paints[0]
	require.Len(t, paint.Stops, 2)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, paint.Stops[0].Color)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, paint.Stops[1].Color)
	assert.InDelta(t, 1, paint.Stops[1].Offset, 1e-9)
}

func TestGenerateShadowUsesThemeShadowColor(t *testing.T) {
	t.Parallel()

	th := testTheme()
	th.Colors.Shadow = "#102030"
	set := Generate([]Effect{Shadow{}, Shadow{Color: "#ffffff"}}, th)

	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}, set.Defs.Filters[0].Color)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, set.Defs.Filters[1].Color)
}

func TestGenerateCapsGlowIntensity(t *testing.T) {
	t.Parallel()

	set := Generate([]Effect{Glow{Intensity: 2000}, Glow{Intensity: 3}}, testTheme())
	assert.Equal(t, MaxGlowIntensity, set.Defs.Filters[0].Intensity)
	assert.Equal(t, 3, set.Defs.Filters[1].Intensity)
}

func TestGenerateRadialGradientFill(t *testing.T) {
	t.Parallel()

	set := Generate([]Effect{
		GradientFill{Colors: []string{"#ff0000", "#0000ff"}, Shape: theme.GradientRadial},
		GradientFill{Colors: []string{"#ff0000", "#0000ff"}, Shape: theme.GradientLinear, Angle: 90},
	}, testTheme())

	radial := set.Defs.Paints[0]
	assert.Equal(t, scene.Radial, radial.Type)
	assert.Equal(t, scene.BoundingBox, radial.Units)
	assert.InDelta(t, 0.5, radial.CX, 1e-9)
	assert.InDelta(t, 0.5, radial.CY, 1e-9)
	assert.InDelta(t, 0.5, radial.R, 1e-9)
	require.Len(t, radial.Stops, 2)

	linear := set.Defs.Paints[1]
	assert.Equal(t, scene.Linear, linear.Type)
	assert.InDelta(t, 1, linear.Y2, 1e-9)
}

func TestGenerateIsDeterministic(t *testing.T) {
	t.Parallel()

	list := []Effect{Shadow{Blur: 1}, GradientFill{Colors: []string{"#123456"}}}
	assert.Equal(t, Generate(list, testTheme()), Generate(list, testTheme()))
	assert.Empty(t, Generate(nil, testTheme()).Defs.Filters)
}

func TestAngleVector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		deg            float64
		x1, y1, x2, y2 float64
	}{
		{0, 0, 0.5, 1, 0.5},
		{90, 0.5, 0, 0.5, 1},
		{180, 1, 0.5, 0, 0.5},
	}
	for _, tt := range tests {
		x1, y1, x2, y2 := AngleVector(tt.deg)
		assert.InDelta(t, tt.x1, x1, 1e-9)
		assert.InDelta(t, tt.y1, y1, 1e-9)
		assert.InDelta(t, tt.x2, x2, 1e-9)
		assert.InDelta(t, tt.y2, y2, 1e-9)
	}
}
