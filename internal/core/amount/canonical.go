package amount

func (a *Amount) canonicalize() error {
	if a.native {
		if a.value == 0 {
			a.offset = 0
			a.negative = false
			return nil
		}
		for a.offset < 0 {
			a.value /= 10
			a.offset++
		}
		for a.offset > 0 {
			if a.value > MaxNative/10 {
				return ErrOverflow
			}
			a.value *= 10
			a.offset--
		}
		if a.value > MaxNative {
			return ErrOverflow
		}
		if a.value == 0 {
			a.negative = false
		}
		return nil
	}

	if a.value == 0 {
		a.offset = ZeroOffset
		a.negative = false
		return nil
	}
	for a.value < MinValue && a.offset > MinOffset {
		a.value *= 10
		a.offset--
	}
	for a.value > MaxValue {
		if a.offset >= MaxOffset {
			return ErrOverflow
		}
		a.value /= 10
		a.offset++
	}
	if a.offset < MinOffset || a.value < MinValue {
		return ErrUnderflow
	}
	if a.offset > MaxOffset {
		return ErrOverflow
	}
	return nil
}

// IsCanonical reports whether a satisfies the representation invariants.
func (a Amount) IsCanonical() bool {
	if a.native {
		return a.offset == 0 && a.value <= MaxNative && (a.value != 0 || !a.negative)
	}
	if a.value == 0 {
		return a.offset == ZeroOffset && !a.negative
	}
	return a.value >= MinValue && a.value <= MaxValue && a.offset >= MinOffset && a.offset <= MaxOffset
}
