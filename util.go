package syncprim

// noCopy may be embedded in a struct that must not be copied after its
// first use. go vet's -copylocks check flags any value or copy assignment
// once this is present.
//
// https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// negate32 returns the two's-complement negation of v, for use with
// atomic.Uint32.Add as a subtraction.
func negate32(v uint32) uint32 {
	return ^v + 1
}
