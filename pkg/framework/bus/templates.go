package bus

// NewStereoConfiguration creates one stereo main input and one stereo main
// output, both with id 0 and the given name.
func NewStereoConfiguration(name string) *Configuration {
	return NewBuilder().
		WithStereoInput(0, name).
		WithStereoOutput(0, name).
		Supports64Bits().
		MustBuild()
}

