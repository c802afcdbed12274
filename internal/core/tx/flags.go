package tx

// Payment flags:
const (
	TfCreateAccount  uint32 = 0x00010000
	TfPartialPayment uint32 = 0x00020000
	TfLimitQuality   uint32 = 0x00040000
	TfNoRippleDirect uint32 = 0x00080000
	TfPaymentMask           = TfCreateAccount | TfPartialPayment | TfLimitQuality | TfNoRippleDirect
)

// OfferCreate flags:
const (
	TfPassive         uint32 = 0x00010000
	TfOfferCreateMask        = TfPassive
)

func isSet(flags, bit uint32) bool { return flags&bit != 0 }
