package scenegraph

// Layers is a 32 channel membership mask. A node is rendered by a camera
// when they share at least one channel.
type Layers uint32

const AllLayers Layers = 0xffffffff

// DefaultLayers has only channel 0 enabled.
const DefaultLayers Layers = 1

func (l *Layers) Set(channel int)    { *l = Layers(1) << uint(channel) }
func (l *Layers) Enable(channel int) { *l |= Layers(1) << uint(channel) }
func (l *Layers) Disable(channel int) {
	*l &^= Layers(1) << uint(channel)
}
func (l *Layers) Toggle(channel int) { *l ^= Layers(1) << uint(channel) }
func (l *Layers) EnableAll()         { *l = AllLayers }
func (l *Layers) DisableAll()        { *l = 0 }

// Test reports whether l and other share a channel.
func (l Layers) Test(other Layers) bool { return l&other != 0 }

func (l Layers) IsEnabled(channel int) bool {
	return l&(Layers(1)<<uint(channel)) != 0
}
