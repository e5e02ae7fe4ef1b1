package types

// EpochNumberWithFraction locates a block within its epoch. Of the lower
// 56 bits, from high to low: 16 bits epoch length, 16 bits block index in
// the epoch, 24 bits epoch number.
type EpochNumberWithFraction Uint64

const (
	epochNumberBits = 24
	epochIndexBits  = 16
	epochLengthBits = 16

	epochNumberMask = 1<<epochNumberBits - 1
	epochIndexMask  = 1<<epochIndexBits - 1
	epochLengthMask = 1<<epochLengthBits - 1
)

// NewEpochNumberWithFraction packs the three parts; each is truncated to
// its field width.
func NewEpochNumberWithFraction(number, index, length uint64) EpochNumberWithFraction {
	return EpochNumberWithFraction(
		(length&epochLengthMask)<<(epochNumberBits+epochIndexBits) |
			(index&epochIndexMask)<<epochNumberBits |
			number&epochNumberMask,
	)
}

func (e EpochNumberWithFraction) Number() uint64 { return uint64(e) & epochNumberMask }
func (e EpochNumberWithFraction) Index() uint64  { return uint64(e) >> epochNumberBits & epochIndexMask }
func (e EpochNumberWithFraction) Length() uint64 {
	return uint64(e) >> (epochNumberBits + epochIndexBits) & epochLengthMask
}

func (e EpochNumberWithFraction) String() string { return Uint64(e).String() }

func (e EpochNumberWithFraction) MarshalText() ([]byte, error) { return Uint64(e).MarshalText() }

func (e *EpochNumberWithFraction) UnmarshalText(text []byte) error {
	v, err := ParseUint64(string(text))
	if err != nil {
		return err
	}
	*e = EpochNumberWithFraction(v)
	return nil
}
