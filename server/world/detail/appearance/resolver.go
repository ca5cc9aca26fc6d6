// Package appearance selects the active asset set of a chunk and computes the
// current colour and size of the grass layers from the seasonal curve.
package appearance

import (
	"github.com/df-mc/groundcover/server/world/detail/bounds"
	"github.com/df-mc/groundcover/server/world/detail/climate"
	"github.com/df-mc/groundcover/server/world/detail/season"
	"github.com/segmentio/fasthash/fnv1a"
)

// LayerState is the resolved appearance of a single layer.
type LayerState struct {
	Key    string
	Colour season.Pair
	Height bounds.Range[float64]
	Width  bounds.Range[float64]
}

// State is the resolved appearance of a chunk. Renderers use Key to select the
// mesh and texture set and the per-layer values for material uniforms.
type State struct {
	Climate climate.Climate
	Season  climate.Season
	Branch  climate.Branch
	Day     int
	// Key is the asset key of the grass layer.
	Key string
	// KeyHash is a fingerprint of Key that renderers may use to look up
	// cached assets.
	KeyHash uint64
	Layers  [LayerCount]LayerState
}

type memoKey struct {
	c   climate.Climate
	s   climate.Season
	day int
}

// Resolver resolves the appearance for a single chunk. It remembers the last
// resolved state so that repeated calls with an unchanged context are free.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	conf Config

	memo    memoKey
	hasMemo bool
	state   State

	prevHash uint64
	changed  bool
}

// NewResolver returns a Resolver using conf.
func NewResolver(conf Config) *Resolver {
	return &Resolver{conf: conf}
}

// Resolve returns the appearance for climate c in season s on day. An error
// wrapping climate.ErrUnknown is returned for undefined climates.
func (r *Resolver) Resolve(c climate.Climate, s climate.Season, day int) (State, error) {
	key := memoKey{c: c, s: s, day: season.Normalise(day)}
	if r.hasMemo && r.memo == key {
		r.changed = false
		return r.state, nil
	}
	st, err := r.resolve(key)
	if err != nil {
		return State{}, err
	}
	r.changed = !r.hasMemo || st.KeyHash != r.prevHash
	r.prevHash = st.KeyHash
	r.memo, r.hasMemo, r.state = key, true, st
	return st, nil
}

func (r *Resolver) resolve(k memoKey) (State, error) {
	branch, err := climate.BranchOf(k.c, k.s)
	if err != nil {
		return State{}, err
	}
	assetKey, err := r.conf.Assets.Key(k.c, branch)
	if err != nil {
		return State{}, err
	}
	st := State{
		Climate: k.c,
		Season:  k.s,
		Branch:  branch,
		Day:     k.day,
		Key:     assetKey,
		KeyHash: fnv1a.HashString64(assetKey),
	}
	curve := r.conf.Curve
	for i, ch := range r.conf.Channels {
		ls := LayerState{Key: assetKey + Layer(i).suffix()}
		if branch == climate.BranchDesert {
			// Deserts have no seasons: always full grown with summer colours.
			ls.Colour, ls.Height, ls.Width = ch.Keyframes.Summer, ch.Height, ch.Width
		} else {
			ls.Colour = curve.ColourAt(k.day, ch.Keyframes)
			ls.Height = curve.ScaleAt(k.day, ch.Height)
			ls.Width = curve.ScaleAt(k.day, ch.Width)
		}
		st.Layers[i] = ls
	}
	return st, nil
}

// Changed reports if the asset key resolved by the last call to Resolve
// differs from the one resolved before it. The first successful call always
// reports a change.
func (r *Resolver) Changed() bool {
	return r.changed
}

// Reset drops the remembered state. The next call to Resolve recomputes the
// appearance and reports a change.
func (r *Resolver) Reset() {
	*r = Resolver{conf: r.conf}
}
