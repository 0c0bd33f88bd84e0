// Package prompt builds the final request text sent to the image model.
package prompt

import (
	"errors"
	"fmt"

	"image-studio-server/modules/options"
)

// QualitySuffix is appended when quality boost is requested.
const QualitySuffix = "high quality, detailed, professional, sharp focus, well-composed"

// ErrUnknownOption is returned for a non-sentinel key missing from its table.
var ErrUnknownOption = errors.New("unknown option")

// Composer appends style, ratio and quality fragments to a base prompt.
// The tables are never mutated.
type Composer struct {
	styles map[string]string
	ratios map[string]string
}

func NewComposer(styles, ratios map[string]string) *Composer {
	return &Composer{styles: styles, ratios: ratios}
}

var defaultComposer = NewComposer(options.StylePresets, options.AspectRatios)

// Compose uses the built-in option tables.
func Compose(baseText, styleKey, ratioKey string, qualityBoost bool) (string, error) {
	return defaultComposer.Compose(baseText, styleKey, ratioKey, qualityBoost)
}

// Compose appends fragments in the order style, ratio, quality.
// "None" and "Default" are the sentinels for style and ratio.
func (c *Composer) Compose(baseText, styleKey, ratioKey string, qualityBoost bool) (string, error) {
	enhanced := baseText

	if styleKey != options.StyleNone {
		fragment, ok := c.styles[styleKey]
		if !ok {
			return "", fmt.Errorf("style %q: %w", styleKey, ErrUnknownOption)
		}
		enhanced = enhanced + ", " + fragment
	}

	if ratioKey != options.RatioDefault {
		fragment, ok := c.ratios[ratioKey]
		if !ok {
			return "", fmt.Errorf("aspect ratio %q: %w", ratioKey, ErrUnknownOption)
		}
		enhanced = enhanced + ", " + fragment
	}

	if qualityBoost {
		enhanced = enhanced + ", " + QualitySuffix
	}

	return enhanced, nil
}
