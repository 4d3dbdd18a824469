package color

import "sort"

// Swatch is a normalized color together with how often it was seen.
type Swatch struct {
	Hex   string `json:"hex"`
	RGB   string `json:"rgb"`
	HSL   string `json:"hsl"`
	Usage int    `json:"usage"`
}

// Tally counts normalized hex codes in first-seen order.
type Tally struct {
	counts map[string]int
	order  []string
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add parses a CSS color value and adds n occurrences of it.
// Values that do not parse are ignored.
func (t *Tally) Add(cssValue string, n int) {
	if n <= 0 {
		return
	}
	hex, ok := ParseCSS(cssValue)
	if !ok {
		return
	}
	if _, seen := t.counts[hex]; !seen {
		t.order = append(t.order, hex)
	}
	t.counts[hex] += n
}

// Len returns the number of distinct colors.
func (t *Tally) Len() int {
	return len(t.order)
}

// Top returns at most limit swatches sorted by descending usage.
// Ties keep first-seen order. A limit <= 0 returns all.
func (t *Tally) Top(limit int) []Swatch {
	swatches := make([]Swatch, 0, len(t.order))
	for _, hex := range t.order {
		rgb, _ := HexToRGB(hex)
		swatches = append(swatches, Swatch{
			Hex:   hex,
			RGB:   rgb.String(),
			HSL:   rgb.ToHSL().String(),
			Usage: t.counts[hex],
		})
	}

	sort.SliceStable(swatches, func(i, j int) bool {
		return swatches[i].Usage > swatches[j].Usage
	})

	if limit > 0 && len(swatches) > limit {
		swatches = swatches[:limit]
	}
	return swatches
}
