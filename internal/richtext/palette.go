package richtext

import "strings"

const (
	textClassPrefix      = "text-"
	highlightClassPrefix = "highlight-"
	backgroundSuffix     = "_background"
)

// DefaultColors lists the colour names the content store emits.
var DefaultColors = []string{
	"gray", "brown", "orange", "yellow", "green", "teal", "blue", "purple", "pink", "red",
}

// ColorPalette maps colour names onto presentation classes.
type ColorPalette struct {
	colors           map[string]struct{}
	defaultText      string
	defaultHighlight string
}

// NewPalette builds a palette accepting the given colour names. Unknown names
// resolve to the neutral default classes.
func NewPalette(colors []string, defaultText, defaultHighlight string) ColorPalette {
	set := make(map[string]struct{}, len(colors))
	for _, c := range colors {
		if key := normalizeColor(c); key != "" {
			set[key] = struct{}{}
		}
	}
	if strings.TrimSpace(defaultText) == "" {
		defaultText = textClassPrefix + "default"
	}
	if strings.TrimSpace(defaultHighlight) == "" {
		defaultHighlight = highlightClassPrefix + "default"
	}
	return ColorPalette{
		colors:           set,
		defaultText:      defaultText,
		defaultHighlight: defaultHighlight,
	}
}

// DefaultPalette returns the palette for DefaultColors.
func DefaultPalette() ColorPalette {
	return NewPalette(DefaultColors, "", "")
}

// TextClass resolves the class for a text colour.
func (p ColorPalette) TextClass(name string) string {
	key := normalizeColor(name)
	if _, ok := p.colors[key]; !ok {
		return p.defaultTextClass()
	}
	return textClassPrefix + key
}

// HighlightClass resolves the class for a background colour.
func (p ColorPalette) HighlightClass(name string) string {
	key := normalizeColor(name)
	if _, ok := p.colors[key]; !ok {
		return p.defaultHighlightClass()
	}
	return highlightClassPrefix + key
}

// Known reports whether the palette recognises the colour.
func (p ColorPalette) Known(name string) bool {
	_, ok := p.colors[normalizeColor(name)]
	return ok
}

// IsBackground reports whether a raw colour name denotes a background colour.
func IsBackground(name string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), backgroundSuffix)
}

func (p ColorPalette) defaultTextClass() string {
	if p.defaultText == "" {
		return textClassPrefix + "default"
	}
	return p.defaultText
}

func (p ColorPalette) defaultHighlightClass() string {
	if p.defaultHighlight == "" {
		return highlightClassPrefix + "default"
	}
	return p.defaultHighlight
}

func normalizeColor(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(key, backgroundSuffix)
}
