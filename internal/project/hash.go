package project

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит хеш сборки: H( content || part1 || part2 ... ).
// Порядок частей должен быть детерминированным (Layout.Files уже отсортирован).
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// DigestBytes hashes raw bytes, e.g. the config file or the tool version.
func DigestBytes(data []byte) Digest {
	return sha256.Sum256(data)
}
