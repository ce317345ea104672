package reward

import (
	"errors"
	"fmt"
	"math"

	"aerial-rl-go/internal/game"
)

const (
	DefaultMinHeight = 150.0
	DefaultMaxHeight = 800.0
	DefaultMinRatio  = 0.1
	DefaultMaxRatio  = 4.0

	// Fractions of the gap between target and observed average applied per reset.
	targetStepDown = 0.05
	targetStepUp   = 0.25

	ratioExponent = 1.25
	ratioDivisor  = 4.0
)

var (
	ErrNilDelegate  = errors.New("reward: nil delegate")
	ErrRatioBounds  = errors.New("reward: invalid ratio bounds")
	ErrHeightBounds = errors.New("reward: invalid height bounds")
)

// HeightCurve selects how ball height maps to the reward multiplier.
type HeightCurve string

const (
	// CurveLegacy divides the height offset by (target/4)^1.25.
	CurveLegacy HeightCurve = "legacy"
	// CurveNormalized raises the normalized height offset to the exponent, so
	// the multiplier is exactly 1 at the target height.
	CurveNormalized HeightCurve = "normalized"
)

// AerialConfig holds the optional wrapper parameters. Nil fields and an empty
// curve fall back to the package defaults; an explicit zero is kept.
type AerialConfig struct {
	MinHeight *float32    `yaml:"min_height" json:"minHeight"`
	MaxHeight *float32    `yaml:"max_height" json:"maxHeight"`
	MinRatio  *float32    `yaml:"min_ratio" json:"minRatio"`
	MaxRatio  *float32    `yaml:"max_ratio" json:"maxRatio"`
	Curve     HeightCurve `yaml:"curve" json:"curve"`
}

// Float returns a pointer to v for filling AerialConfig.
func Float(v float32) *float32 {
	return &v
}

func DefaultAerialConfig() AerialConfig {
	return AerialConfig{
		MinHeight: Float(DefaultMinHeight),
		MaxHeight: Float(DefaultMaxHeight),
		MinRatio:  Float(DefaultMinRatio),
		MaxRatio:  Float(DefaultMaxRatio),
		Curve:     CurveLegacy,
	}
}

// aerialParams is AerialConfig with every default resolved.
type aerialParams struct {
	minHeight float32
	maxHeight float32
	minRatio  float32
	maxRatio  float32
	curve     HeightCurve
}

func valueOr(v *float32, def float32) float32 {
	if v == nil {
		return def
	}
	return *v
}

func (c AerialConfig) resolve() aerialParams {
	p := aerialParams{
		minHeight: valueOr(c.MinHeight, DefaultMinHeight),
		maxHeight: valueOr(c.MaxHeight, DefaultMaxHeight),
		minRatio:  valueOr(c.MinRatio, DefaultMinRatio),
		maxRatio:  valueOr(c.MaxRatio, DefaultMaxRatio),
		curve:     c.Curve,
	}
	if p.curve == "" {
		p.curve = CurveLegacy
	}
	return p
}

// Validate reports the first inconsistency in c after defaults are applied.
func (c AerialConfig) Validate() error {
	return c.resolve().validate()
}

func (p aerialParams) validate() error {
	if !finite32(p.minRatio) || !finite32(p.maxRatio) {
		return fmt.Errorf("%w: ratios must be finite (min=%v max=%v)", ErrRatioBounds, p.minRatio, p.maxRatio)
	}
	if p.minRatio > p.maxRatio {
		return fmt.Errorf("%w: min_ratio %v > max_ratio %v", ErrRatioBounds, p.minRatio, p.maxRatio)
	}
	if !finite32(p.minHeight) || !finite32(p.maxHeight) {
		return fmt.Errorf("%w: heights must be finite (min=%v max=%v)", ErrHeightBounds, p.minHeight, p.maxHeight)
	}
	if p.minHeight <= 0 {
		return fmt.Errorf("%w: min_height %v must be positive", ErrHeightBounds, p.minHeight)
	}
	if p.minHeight >= p.maxHeight {
		return fmt.Errorf("%w: min_height %v >= max_height %v", ErrHeightBounds, p.minHeight, p.maxHeight)
	}
	switch p.curve {
	case CurveNormalized, CurveLegacy:
	default:
		return fmt.Errorf("reward: unknown height curve %q", p.curve)
	}
	return nil
}

// AerialWeighted scales a delegate reward by how high the ball is relative to
// a target height learned from the ball heights at which the player touched it
// in previous episodes.
type AerialWeighted struct {
	delegate Function
	curve    HeightCurve

	minRatio float32
	maxRatio float32

	targetHeight float32
	minHeight    float32
	maxHeight    float32

	// accumulated between resets
	totalHeight     float32
	numTicksTouched uint64
	lastSeenTick    uint64
}

// NewAerialWeighted wraps delegate, taking ownership of it. The target height
// starts at the configured minimum.
func NewAerialWeighted(delegate Function, cfg AerialConfig) (*AerialWeighted, error) {
	if delegate == nil {
		return nil, ErrNilDelegate
	}
	p := cfg.resolve()
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &AerialWeighted{
		delegate:     delegate,
		curve:        p.curve,
		minRatio:     p.minRatio,
		maxRatio:     p.maxRatio,
		targetHeight: p.minHeight,
		minHeight:    p.minHeight,
		maxHeight:    p.maxHeight,
	}, nil
}

// TargetHeight returns the current adaptive target ball height. It stays
// within the configured min and max heights.
func (w *AerialWeighted) TargetHeight() float32 {
	return w.targetHeight
}

// Reset folds the previous episode's touch heights into the target height.
// The target falls slowly so the agent cannot lower it by keeping play low,
// and rises by a bounded step so one short episode cannot move it far.
func (w *AerialWeighted) Reset(initial *game.GameState) {
	avgHeight := w.minHeight
	if w.numTicksTouched > 0 {
		avgHeight = w.totalHeight / float32(w.numTicksTouched)
	}
	if isNaN32(avgHeight) {
		avgHeight = w.minHeight
	}

	switch {
	case avgHeight > w.maxHeight:
		w.targetHeight = w.maxHeight
	case avgHeight < w.minHeight:
		w.targetHeight = w.minHeight
	case avgHeight < w.targetHeight:
		w.targetHeight -= (w.targetHeight - avgHeight) * targetStepDown
	default:
		w.targetHeight += (avgHeight - w.targetHeight) * targetStepUp
	}

	w.totalHeight = 0
	w.numTicksTouched = 0
	w.lastSeenTick = initial.TickNum
	w.delegate.Reset(initial)
}

func (w *AerialWeighted) GetReward(player *game.PlayerData, state *game.GameState, previousAction []float32) float32 {
	w.sample(player, state)
	ratio := w.HeightRatio(state.BallHeight())
	return w.delegate.GetReward(player, state, previousAction) * ratio
}

// GetFinalReward samples and scales exactly like GetReward.
func (w *AerialWeighted) GetFinalReward(player *game.PlayerData, state *game.GameState, previousAction []float32) float32 {
	return w.GetReward(player, state, previousAction)
}

// sample records the ball height once per tick on which the player touched
// the ball. Hosts may ask for the same tick's reward more than once.
func (w *AerialWeighted) sample(player *game.PlayerData, state *game.GameState) {
	if state.TickNum == w.lastSeenTick || !player.BallTouched {
		return
	}
	w.totalHeight += state.BallHeight()
	w.numTicksTouched++
	w.lastSeenTick = state.TickNum
}

// HeightRatio returns the clamped multiplier for a ball at height z.
func (w *AerialWeighted) HeightRatio(z float32) float32 {
	t := float64(w.targetHeight)
	quarter := t / ratioDivisor
	offset := float64(z) - t + quarter

	var ratio float64
	switch w.curve {
	case CurveNormalized:
		base := offset / quarter
		if base <= 0 {
			return w.minRatio
		}
		ratio = math.Pow(base, ratioExponent)
	default:
		ratio = offset / math.Pow(quarter, ratioExponent)
	}
	return clampRatio(float32(ratio), w.minRatio, w.maxRatio)
}

func clampRatio(ratio, lo, hi float32) float32 {
	if isNaN32(ratio) || ratio < lo {
		return lo
	}
	if ratio > hi {
		return hi
	}
	return ratio
}

func isNaN32(v float32) bool {
	return v != v
}

func finite32(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
