package amount

import (
	"github.com/LeJamon/goRippled/internal/types"
)

// OfferFill is the outcome of crossing a taker against one resting offer.
type OfferFill struct {
	// TakerPaid is what the taker pays the offer owner, before fees.
	TakerPaid Amount
	// TakerGot is what the offer owner pays the taker, before fees.
	TakerGot Amount
	// TakerIssuerFee is charged to the taker by the issuer of TakerPaid.
	TakerIssuerFee Amount
	// OfferIssuerFee is charged to the offer owner by the issuer of TakerGot.
	OfferIssuerFee Amount
	// Consumed is set when the offer has nothing left to pay.
	Consumed bool
}

// ApplyOffer crosses a taker against an offer that pays offerPays in
// exchange for offerGets. takerPays/takerGets are what the taker still wants
// to trade. Both transfer rates are in QualityOne units: takerPaysRate is
// the fee the taker's issuer charges on what the taker pays, offerPaysRate
// the fee the offer owner's issuer charges on what the owner pays.
func ApplyOffer(
	takerPaysRate, offerPaysRate uint32,
	offerFunds, takerFunds Amount,
	offerPays, offerGets Amount,
	takerPays, takerGets Amount,
) (OfferFill, error) {
	if !offerGets.Comparable(takerPays) {
		return OfferFill{}, incomparable(offerGets, takerPays)
	}

	one := types.CurrencyOne
	oneIssuer := types.AccountOne

	offerFundsAvail := offerFunds
	if offerPaysRate != QualityOne {
		v, err := Divide(offerFunds, FromRate(offerPaysRate), offerFunds.currency, offerFunds.issuer)
		if err != nil {
			return OfferFill{}, err
		}
		offerFundsAvail = v
	}

	offerPaysAvail := Min(offerFundsAvail, offerPays)

	offerGetsAvail := offerGets
	if !offerPaysAvail.Equal(offerPays) {
		scaled, err := Multiply(offerGets, offerPaysAvail, one, oneIssuer)
		if err != nil {
			return OfferFill{}, err
		}
		offerGetsAvail, err = Divide(scaled, offerPays, offerGets.currency, offerGets.issuer)
		if err != nil {
			return OfferFill{}, err
		}
	}

	takerFundsAvail := takerFunds
	if takerPaysRate != QualityOne {
		v, err := Divide(takerFunds, FromRate(takerPaysRate), takerFunds.currency, takerFunds.issuer)
		if err != nil {
			return OfferFill{}, err
		}
		takerFundsAvail = v
	}

	var fill OfferFill
	switch {
	case offerGets.Equal(offerGetsAvail) && takerFundsAvail.GreaterEqual(offerGets):
		fill.TakerPaid = offerGets
		fill.TakerGot = offerPays
	case takerFundsAvail.GreaterEqual(offerGetsAvail):
		fill.TakerPaid = offerGetsAvail
		fill.TakerGot = offerPaysAvail
	default:
		fill.TakerPaid = takerFundsAvail
		scaled, err := Multiply(takerFundsAvail, offerPaysAvail, one, oneIssuer)
		if err != nil {
			return OfferFill{}, err
		}
		fill.TakerGot, err = Divide(scaled, offerGetsAvail, offerPays.currency, offerPays.issuer)
		if err != nil {
			return OfferFill{}, err
		}
		fill.TakerGot = Min(fill.TakerGot, offerPaysAvail)
	}

	var err error
	if fill.TakerIssuerFee, err = issuerFee(fill.TakerPaid, takerFunds, takerPaysRate); err != nil {
		return OfferFill{}, err
	}
	if fill.OfferIssuerFee, err = issuerFee(fill.TakerGot, offerFunds, offerPaysRate); err != nil {
		return OfferFill{}, err
	}

	fill.Consumed = fill.TakerGot.GreaterEqual(offerPays)
	return fill, nil
}

// issuerFee is the fee on paid at rate, capped so that paid plus fee never
// exceeds funds.
func issuerFee(paid, funds Amount, rate uint32) (Amount, error) {
	if rate == QualityOne {
		return paid.ZeroClone(), nil
	}
	total, err := Multiply(paid, FromRate(rate), paid.currency, paid.issuer)
	if err != nil {
		return Amount{}, err
	}
	if total.Greater(funds) {
		total = funds
	}
	fee, err := Subtract(total, paid)
	if err != nil {
		return Amount{}, err
	}
	if fee.IsNegative() {
		return paid.ZeroClone(), nil
	}
	return fee, nil
}

// GetPay returns what must be paid into an offer trading offerIn for offerOut
// to receive needed out of it, never more than offerIn.
func GetPay(offerOut, offerIn, needed Amount) (Amount, error) {
	if offerOut.IsZero() {
		return offerIn.ZeroClone(), nil
	}
	if needed.GreaterEqual(offerOut) {
		return offerIn, nil
	}
	scaled, err := Multiply(needed, offerIn, types.CurrencyOne, types.AccountOne)
	if err != nil {
		return Amount{}, err
	}
	pay, err := Divide(scaled, offerOut, offerIn.currency, offerIn.issuer)
	if err != nil {
		return Amount{}, err
	}
	return Min(pay, offerIn), nil
}
