package engine

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// SCALES — Band x-scale, linear y-scale, tick density
// ============================================================================

// Label density thresholds.
const (
	labelWidth      = 30.0 // approximate pixels per x label
	thinAbove       = 20   // thin x labels above this many values
	rotateAbove     = 8    // rotate x labels above this many values
	bandPadding     = 0.1
	defaultYTickCnt = 10
)

// BandScale maps a categorical domain onto evenly spaced bands.
type BandScale struct {
	domain    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale lays domain out across [r0, r1] with equal inner and outer
// padding, centred. Duplicate domain entries are dropped.
func NewBandScale(domain []string, r0, r1, padding float64) *BandScale {
	b := &BandScale{index: make(map[string]int, len(domain))}
	for _, d := range domain {
		if _, dup := b.index[d]; dup {
			continue
		}
		b.index[d] = len(b.domain)
		b.domain = append(b.domain, d)
	}

	n := float64(len(b.domain))
	b.step = (r1 - r0) / math.Max(1, n-padding+padding*2)
	b.start = r0 + (r1-r0-b.step*(n-padding))*0.5
	b.bandwidth = b.step * (1 - padding)
	return b
}

// Domain returns the de-duplicated domain.
func (b *BandScale) Domain() []string { return b.domain }

// Bandwidth returns the width of one band.
func (b *BandScale) Bandwidth() float64 { return b.bandwidth }

// Position returns the start of v's band.
func (b *BandScale) Position(v string) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Center returns the middle of v's band.
func (b *BandScale) Center(v string) (float64, bool) {
	p, ok := b.Position(v)
	return p + b.bandwidth/2, ok
}

// LinearScale maps [d0, d1] onto [r0, r1].
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale builds a linear scale.
func NewLinearScale(d0, d1, r0, r1 float64) *LinearScale {
	return &LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Scale maps v into the range.
func (l *LinearScale) Scale(v float64) float64 {
	if l.d1 == l.d0 {
		return (l.r0 + l.r1) / 2
	}
	return l.r0 + (v-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}

// Ticks returns roughly count round tick values spanning the domain.
func (l *LinearScale) Ticks(count int) []float64 {
	return niceTicks(l.d0, l.d1, count)
}

// YDomainMax is the ceiling of the largest finite value, or 1 when there is
// no positive value.
func YDomainMax(values []float64) float64 {
	max := math.Inf(-1)
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > max {
			max = v
		}
	}
	upper := math.Ceil(max)
	if math.IsInf(upper, -1) || upper <= 0 {
		return 1
	}
	return upper
}

// TickStride returns N such that every Nth x label is shown. Labels are
// only thinned above 20 values; the budget is one label per 30px.
func TickStride(count int, width float64) int {
	if count <= thinAbove {
		return 1
	}
	maxLabels := int(math.Floor(width / labelWidth))
	if maxLabels < 1 {
		return count
	}
	return int(math.Ceil(float64(count) / float64(maxLabels)))
}

// RotateLabels reports whether x labels are drawn at -45°.
func RotateLabels(count int) bool {
	return count > rotateAbove
}

// ============================================================================
// NICE TICKS
// ============================================================================

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

func tickSpec(start, stop float64, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func niceTicks(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	i1, i2, inc := tickSpec(start, stop, float64(count))
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2 - i1 + 1)
	ticks := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			ticks[i] = (i1 + float64(i)) / -inc
		} else {
			ticks[i] = (i1 + float64(i)) * inc
		}
	}
	if reverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// FormatTick renders a y tick with thousands separators.
func FormatTick(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}
