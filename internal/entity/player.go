package entity

// Identity is an authenticated participant identity supplied by the calling layer.
type Identity string

// NoPlayer marks an unbound player slot.
const NoPlayer Identity = ""

func (that Identity) IsNone() bool {
	return that == NoPlayer
}
