package amount

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/LeJamon/goRippled/internal/types"
)

// String renders the value without currency. Native amounts print in base
// units. Non-native amounts print in decimal unless the exponent is far from
// the mantissa's digits, in which case "<mantissa>e<exponent>" is used.
func (a Amount) String() string {
	sign := ""
	if a.IsNegative() {
		sign = "-"
	}
	if a.native {
		return sign + strconv.FormatUint(a.value, 10)
	}
	if a.IsZero() {
		return "0"
	}
	if a.offset != 0 && (a.offset < -25 || a.offset > -5) {
		return fmt.Sprintf("%s%de%d", sign, a.value, a.offset)
	}

	digits := strings.Repeat("0", 27) + strconv.FormatUint(a.value, 10) + strings.Repeat("0", 23)
	point := a.offset + 43

	pre := strings.TrimLeft(digits[:point], "0")
	if pre == "" {
		pre = "0"
	}
	post := strings.TrimRight(digits[point:], "0")

	if post == "" {
		return sign + pre
	}
	return sign + pre + "." + post
}

// FullText renders value, currency and issuer.
func (a Amount) FullText() string {
	if a.native {
		return a.String() + "/XRP"
	}
	switch a.issuer {
	case types.AccountXRP:
		return a.String() + "/" + a.currency.String() + "/0"
	case types.AccountOne:
		return a.String() + "/" + a.currency.String() + "/1"
	default:
		return a.String() + "/" + a.currency.String() + "/" + a.issuer.String()
	}
}

type jsonAmount struct {
	Value    string          `json:"value"`
	Currency types.Currency  `json:"currency"`
	Issuer   types.AccountID `json:"issuer"`
}

// MarshalJSON renders native amounts as a string of base units and
// non-native amounts as a value/currency/issuer object.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.native {
		return json.Marshal(a.String())
	}
	return json.Marshal(jsonAmount{Value: a.String(), Currency: a.currency, Issuer: a.issuer})
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var drops string
	if err := json.Unmarshal(data, &drops); err == nil {
		v, err := strconv.ParseInt(drops, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidFormat, drops)
		}
		*a = NewNative(v)
		return a.canonicalize()
	}

	var obj jsonAmount
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if obj.Currency.IsNative() {
		return fmt.Errorf("%w: native amount must be a string of base units", ErrInvalidFormat)
	}
	parsed, err := FromDecimalString(obj.Value, obj.Currency, obj.Issuer)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
