package generation

import (
	"fmt"
	"strings"
	"time"
)

// ResultCount is the number of placeholder results revealed by every generation.
const ResultCount = 4

// Color is a named palette entry.
type Color struct {
	Name string
	Hex  string
}

// Palette holds the fixed colours used for the result squares.
type Palette [ResultCount]Color

var (
	ClassicPalette = Palette{
		{Name: "blue", Hex: "#0a84ff"},
		{Name: "green", Hex: "#30d158"},
		{Name: "purple", Hex: "#bf5af2"},
		{Name: "orange", Hex: "#ff9f0a"},
	}
	ExperiencePalette = Palette{
		{Name: "blue", Hex: "#0a84ff"},
		{Name: "purple", Hex: "#bf5af2"},
		{Name: "indigo", Hex: "#5e5ce6"},
		{Name: "mint", Hex: "#66d4cf"},
	}
)

// LoaderKind selects the animation shown while a generation is pending.
type LoaderKind string

const (
	LoaderDots  LoaderKind = "dots"
	LoaderSwirl LoaderKind = "swirl"
)

// Variant parameterises the generation screen.
type Variant struct {
	Name          string
	Title         string
	Description   string
	Palette       Palette
	Delay         time.Duration
	Loader        LoaderKind
	ExpandOnFocus bool
}

const (
	VariantClassic    = "classic"
	VariantExperience = "experience"
)

var variants = []Variant{
	{
		Name:        VariantClassic,
		Title:       "Content",
		Description: "Wide input bar, dotted loader, five second generation.",
		Palette:     ClassicPalette,
		Delay:       5 * time.Second,
		Loader:      LoaderDots,
	},
	{
		Name:          VariantExperience,
		Title:         "Experience",
		Description:   "Condensed input bar that springs open on focus, swirl loader.",
		Palette:       ExperiencePalette,
		Delay:         3 * time.Second,
		Loader:        LoaderSwirl,
		ExpandOnFocus: true,
	},
}

// Variants returns the built-in variants in display order.
func Variants() []Variant {
	return append([]Variant(nil), variants...)
}

// LookupVariant finds a built-in variant by name, ignoring case.
func LookupVariant(name string) (Variant, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, v := range variants {
		if v.Name == key {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown variant %q", name)
}
