package paths

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/core/tx/view"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/metrics"
	"github.com/LeJamon/goRippled/internal/types"
)

// maxPasses bounds the increments one payment may take.
const maxPasses = 1000

// Params describes one payment to route.
type Params struct {
	// MaxAmountReq is the most the source will spend, in the source's
	// currency and issuer.
	MaxAmountReq amount.Amount
	// DstAmountReq is what the destination should receive.
	DstAmountReq amount.Amount
	Dst          types.AccountID
	Src          types.AccountID
	Paths        PathSet

	// Partial accepts delivering less than DstAmountReq.
	Partial bool
	// LimitQuality refuses increments worse than the overall
	// DstAmountReq/MaxAmountReq rate.
	LimitQuality bool
	// NoRippleDirect leaves out the implied direct path.
	NoRippleDirect bool
	// Standalone skips removing unfunded offers.
	Standalone bool

	// Now is the parent ledger's close time, for offer expiration.
	Now     uint32
	Metrics *metrics.Metrics
}

// RippleCalc moves value from p.Src to p.Dst over the candidate paths,
// applying the best increment each pass until the request is met, the
// sending limit is reached, or every path is dry. On success active holds
// the resulting ledger state.
func RippleCalc(active *view.EntrySet, p Params) (maxAct, dstAct amount.Amount, res ter.Result) {
	maxAct, dstAct = p.MaxAmountReq.ZeroClone(), p.DstAmountReq.ZeroClone()
	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(calcFault)
			if !ok {
				panic(r)
			}
			log.Error("rippleCalc: amount fault", "src", p.Src, "dst", p.Dst, "err", fault.err)
			res = ter.TefEXCEPTION
		}
	}()

	if p.NoRippleDirect && len(p.Paths) == 0 {
		return maxAct, dstAct, ter.TemRIPPLE_EMPTY
	}

	states, res := buildStates(active, p)
	if res != ter.TesSUCCESS {
		return maxAct, dstAct, res
	}

	c := newCalc(active, p.Now, p.Metrics)
	base := active.Duplicate()
	var qualityLimit uint64
	if p.LimitQuality {
		qualityLimit = amount.GetRate(p.DstAmountReq, p.MaxAmountReq)
	}
	dry := bitset.New(uint(len(states)))
	var unfundedBecame []types.Hash256
	multiQuality := len(states) == 1

	res = ter.TemUNCERTAIN
	for pass := 0; res == ter.TemUNCERTAIN; pass++ {
		if pass == maxPasses {
			log.Warn("rippleCalc: too many passes", "src", p.Src, "dst", p.Dst, "delivered", dstAct.FullText())
			active.SetTo(base)
			return maxAct, dstAct, ter.TecFAILED_PROCESSING
		}

		checkpoint := active.Duplicate()
		var best *State
		for i, st := range states {
			if dry.Test(uint(i)) {
				continue
			}
			st.InAct, st.OutAct = maxAct, dstAct
			c.pathNext(st, multiQuality, checkpoint)
			if st.Quality == 0 {
				dry.Set(uint(i))
				continue
			}
			if p.LimitQuality && st.Quality > qualityLimit {
				continue
			}
			if best == nil || lessPriority(best, st) {
				best = st
			}
		}

		if best == nil {
			switch {
			case !p.Partial:
				res = ter.TepPATH_PARTIAL
				active.SetTo(base)
			case dstAct.IsZero():
				res = ter.TepPATH_DRY
				active.SetTo(base)
			default:
				res = ter.TesSUCCESS
			}
			break
		}

		active.SetTo(best.entries)
		unfundedBecame = append(unfundedBecame, best.unfundedBecame...)
		maxAct = add(maxAct, best.InPass)
		dstAct = add(dstAct, best.OutPass)
		log.Debug("rippleCalc: applied increment", "path", best.index, "in", best.InPass.FullText(), "out", best.OutPass.FullText(), "quality", best.Quality)

		switch {
		case dstAct.Equal(p.DstAmountReq):
			res = ter.TesSUCCESS
		case !maxAct.Equal(p.MaxAmountReq) && dry.Count() < uint(len(states)):
			for k, v := range best.reverse {
				c.source[k] = v
			}
		case !p.Partial:
			res = ter.TepPATH_PARTIAL
			active.SetTo(base)
		default:
			res = ter.TesSUCCESS
		}
	}

	if p.Standalone {
		return maxAct, dstAct, res
	}
	c.active = active
	if res == ter.TesSUCCESS {
		res = c.deleteOffers(unfundedBecame)
	}
	// Offers found unfunded or expired go even when the payment fails.
	found := make([]types.Hash256, 0, c.unfundedFound.Cardinality())
	for _, v := range c.unfundedFound.ToSlice() {
		found = append(found, v.(types.Hash256))
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Compare(found[j]) < 0 })
	if r := c.deleteOffers(found); res == ter.TesSUCCESS {
		res = r
	}
	return maxAct, dstAct, res
}

// buildStates expands the direct path, unless excluded, and every explicit
// path. A malformed path fails the whole payment.
func buildStates(active *view.EntrySet, p Params) ([]*State, ter.Result) {
	var states []*State
	res := ter.TemUNCERTAIN

	push := func(path Path) ter.Result {
		st := NewState(len(states), active, path, p.Dst, p.Src, p.DstAmountReq, p.MaxAmountReq)
		if st.Status.IsTem() {
			return st.Status
		}
		if st.Status == ter.TesSUCCESS {
			states = append(states, st)
			res = ter.TesSUCCESS
		} else if res != ter.TesSUCCESS {
			res = st.Status
		}
		return ter.TesSUCCESS
	}

	if !p.NoRippleDirect {
		if r := push(nil); r != ter.TesSUCCESS {
			return nil, r
		}
		if res == ter.TerNO_LINE {
			// Without a direct line the payment may still go by paths.
			res = ter.TemUNCERTAIN
		}
	}
	for _, path := range p.Paths {
		if r := push(path); r != ter.TesSUCCESS {
			return nil, r
		}
	}

	switch {
	case len(states) > 0:
		return states, ter.TesSUCCESS
	case res == ter.TemUNCERTAIN:
		return nil, ter.TerNO_LINE
	default:
		return nil, res
	}
}

// pathNext computes the increment st would add from checkpoint, leaving the
// resulting state in st.entries.
func (c *calc) pathNext(st *State, multiQuality bool, checkpoint *view.EntrySet) {
	last := len(st.Nodes) - 1
	st.InPass = st.InReq.ZeroClone()
	st.OutPass = st.OutReq.ZeroClone()
	st.unfundedBecame = st.unfundedBecame[:0]
	clear(st.reverse)
	for i := range st.Nodes {
		st.Nodes[i].resetPass()
	}

	c.active = st.entries
	c.active.SetTo(checkpoint)
	st.Status = c.calcNodeRev(last, st, multiQuality)
	if st.Status == ter.TesSUCCESS {
		c.active.SetTo(checkpoint)
		for i := range st.Nodes {
			st.Nodes[i].book = bookCursor{}
		}
		st.Status = c.calcNodeFwd(0, st, multiQuality)
	}

	st.Quality = 0
	if st.Status == ter.TesSUCCESS && st.InPass.IsPositive() && st.OutPass.IsPositive() {
		st.Quality = amount.GetRate(st.OutPass, st.InPass)
	}
	c.metrics.PathPass()
	if log.IsTraceEnabled() {
		log.Trace("pathNext", "path", st.index, "status", st.Status, "in", st.InPass.FullText(), "out", st.OutPass.FullText(), "quality", st.Quality)
	}
}

func (c *calc) deleteOffers(keys []types.Hash256) ter.Result {
	seen := make(map[types.Hash256]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if c.active.Offer(k) == nil {
			continue
		}
		if res := c.active.OfferDelete(k); res != ter.TesSUCCESS {
			return res
		}
		log.Debug("rippleCalc: removed unfunded offer", "offer", k)
	}
	return ter.TesSUCCESS
}
