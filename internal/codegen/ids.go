package codegen

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// IDAllocator hands out node, variable, list, broadcast and comment ids.
// One allocator serves a whole project so ids never collide across targets.
// Generation is sequential, so the allocator is not safe for concurrent use.
type IDAllocator struct {
	next uint64
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh id: a base-62 rendering of a monotonic counter.
func (a *IDAllocator) Next() string {
	n := a.next
	a.next++
	return encodeID(n)
}

// Issued returns how many ids were handed out so far.
func (a *IDAllocator) Issued() uint64 {
	return a.next
}

func encodeID(n uint64) string {
	var buf [12]byte
	i := len(buf)
	base := uint64(len(idAlphabet))
	for {
		i--
		buf[i] = idAlphabet[n%base]
		n /= base
		if n == 0 {
			break
		}
	}
	return string(buf[i:])
}
