package engine

import (
	"fmt"
	"log"
	"strings"
)

var heightBandLabels = [heightBands]string{"<=200", "<=600", "<=1200", ">1200"}

// heightProfile tracks a running average of the shaped reward and the number
// of steps observed in each ball height band.
type heightProfile struct {
	alpha  float64
	data   []float64
	visits []int
}

func newHeightProfile(bands int, alpha float64) *heightProfile {
	if bands <= 0 {
		bands = 1
	}
	return &heightProfile{
		alpha:  alpha,
		data:   make([]float64, bands),
		visits: make([]int, bands),
	}
}

func (p *heightProfile) update(band int, reward float64) {
	if band < 0 || band >= len(p.data) {
		return
	}
	current := p.data[band]
	p.data[band] = current + p.alpha*(reward-current)
	p.visits[band]++
}

func (p *heightProfile) cloneData() []float64 {
	out := make([]float64, len(p.data))
	copy(out, p.data)
	return out
}

func (p *heightProfile) print(logger *log.Logger, episode int) {
	if logger == nil {
		return
	}
	var b strings.Builder
	for band, value := range p.data {
		label := fmt.Sprint(band)
		if band < len(heightBandLabels) {
			label = heightBandLabels[band]
		}
		fmt.Fprintf(&b, " %s=%.3f(%d)", label, value, p.visits[band])
	}
	logger.Printf("height profile (episode %d):%s", episode, b.String())
}
