package garments

import (
	"crypto/rand"
	"math/big"
)

// secureShuffle performs an in-place Fisher-Yates shuffle driven by
// crypto/rand. Which garments surface on the homepage must not be
// predictable from previous selections, so a seeded PRNG is not enough.
func secureShuffle(garments []Garment) {
	for i := len(garments) - 1; i > 0; i-- {
		j := secureIntn(i + 1)
		garments[i], garments[j] = garments[j], garments[i]
	}
}

// secureIntn returns a uniform random int in [0, n) from crypto/rand.
func secureIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		return 0
	}
	return int(v.Int64())
}
