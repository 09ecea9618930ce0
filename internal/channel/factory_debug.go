//go:build debug

package channel

// New creates a channel. Debug builds get an unbuffered channel (size is
// ignored) so lost receivers surface as blocked sends.
func New[T any](size int) Channel[T] {
	return NewUnbuffered[T]()
}
