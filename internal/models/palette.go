package models

// The palettes below are closed sets. Every value carries a stable explicit
// integer code so a compact encoding never depends on slice position.

// Font identifies a typeface from the font palette.
type Font string

const (
	FontInter    Font = "inter"
	FontRoboto   Font = "roboto"
	FontLora     Font = "lora"
	FontPoppins  Font = "poppins"
	FontPlayfair Font = "playfair"
	FontMono     Font = "mono"
)

var fontCodes = map[Font]int{
	FontInter:    0,
	FontRoboto:   1,
	FontLora:     2,
	FontPoppins:  3,
	FontPlayfair: 4,
	FontMono:     5,
}

// Color identifies a foreground or background color from the color palette.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
	ColorNavy  Color = "navy"
	ColorTeal  Color = "teal"
	ColorCoral Color = "coral"
	ColorGold  Color = "gold"
	ColorSlate Color = "slate"
)

var colorCodes = map[Color]int{
	ColorWhite: 0,
	ColorBlack: 1,
	ColorNavy:  2,
	ColorTeal:  3,
	ColorCoral: 4,
	ColorGold:  5,
	ColorSlate: 6,
}

// Alignment is the horizontal text alignment of a card.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

var alignmentCodes = map[Alignment]int{
	AlignLeft:   0,
	AlignCenter: 1,
	AlignRight:  2,
}

// Effect is a purely presentational visual effect tag.
type Effect string

const (
	EffectNone   Effect = "none"
	EffectGloss  Effect = "gloss"
	EffectFoil   Effect = "foil"
	EffectEmboss Effect = "emboss"
	EffectShadow Effect = "shadow"
)

var effectCodes = map[Effect]int{
	EffectNone:   0,
	EffectGloss:  1,
	EffectFoil:   2,
	EffectEmboss: 3,
	EffectShadow: 4,
}

// StyleVariant selects one of the card layout templates.
type StyleVariant string

const (
	StyleDefault    StyleVariant = "default"
	StyleModern     StyleVariant = "modern"
	StyleMinimalist StyleVariant = "minimalist"
)

var styleVariantCodes = map[StyleVariant]int{
	StyleDefault:    0,
	StyleModern:     1,
	StyleMinimalist: 2,
}

// Category groups marketplace templates.
type Category string

const (
	CategoryBusiness Category = "business"
	CategoryCreative Category = "creative"
	CategoryMinimal  Category = "minimal"
	CategoryLuxury   Category = "luxury"
)

var categoryCodes = map[Category]int{
	CategoryBusiness: 0,
	CategoryCreative: 1,
	CategoryMinimal:  2,
	CategoryLuxury:   3,
}

// Valid reports whether f is a member of the font palette.
func (f Font) Valid() bool { _, ok := fontCodes[f]; return ok }

// Code returns the stable integer code of f, or -1 for an unknown font.
func (f Font) Code() int {
	if c, ok := fontCodes[f]; ok {
		return c
	}
	return -1
}

// Valid reports whether c is a member of the color palette.
func (c Color) Valid() bool { _, ok := colorCodes[c]; return ok }

// Code returns the stable integer code of c, or -1 for an unknown color.
func (c Color) Code() int {
	if n, ok := colorCodes[c]; ok {
		return n
	}
	return -1
}

// Valid reports whether a is left, center or right.
func (a Alignment) Valid() bool { _, ok := alignmentCodes[a]; return ok }

// Code returns the stable integer code of a, or -1 for an unknown alignment.
func (a Alignment) Code() int {
	if n, ok := alignmentCodes[a]; ok {
		return n
	}
	return -1
}

// Valid reports whether e is a member of the effect palette.
func (e Effect) Valid() bool { _, ok := effectCodes[e]; return ok }

// Valid reports whether s is a known style variant.
func (s StyleVariant) Valid() bool { _, ok := styleVariantCodes[s]; return ok }

// Valid reports whether c is a known template category.
func (c Category) Valid() bool { _, ok := categoryCodes[c]; return ok }
