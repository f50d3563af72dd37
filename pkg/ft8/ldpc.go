package ft8

import (
	"math"

	"github.com/kb9vqf/ft8d/internal/ldpcgen"
)

// ldpcMatrix is built once at package init; see internal/ldpcgen for
// why the parity-check graph is generated rather than transcribed from
// the published FT8 constants (DESIGN.md has the full rationale).
var ldpcMatrix = ldpcgen.Build()

// EncodeLDPC computes the 83 systematic parity bits for w and returns
// the full 174-bit codeword, positions 0..90 equal to w (§4.3
// invariant 3).
func EncodeLDPC(w PayloadWithCrc) Codeword {
	var cw Codeword
	copy(cw[:12], w[:])

	for i := 0; i < ldpcgen.M; i++ {
		parity := parityOf(w[:], ldpcMatrix.Generator[i])
		setBit(cw[:], PayloadWithCrcBits+i, parity)
	}
	return cw
}

// parityOf computes XOR of message bits (as packed in msg, MSB-first)
// selected by the 1-bits of genRow (also MSB-first, K=91 significant
// bits).
func parityOf(msg []byte, genRow []byte) byte {
	var acc byte
	for i := 0; i < LDPCK; i++ {
		g := (genRow[i/8] >> uint(7-i%8)) & 1
		if g == 0 {
			continue
		}
		m := getBit(msg, i)
		acc ^= m
	}
	return acc
}

// DecodeLDPC runs the sum-product belief-propagation decoder described
// in spec §4.3 against channel LLRs (positive ⇒ bit 0 more likely) and
// returns the best codeword found plus its syndrome error count (0 =
// success). Structurally grounded on madpsy-ka9q_ubersdr's ldpc.go
// (edge-indexed message arrays, minimum-error tracking), but using real
// math.Tanh/math.Atanh with the spec's exact clamps instead of the
// reference's fast polynomial approximation, and the spec's LLR sign
// convention rather than the reference's (which is inverted — see
// extract.go).
func DecodeLDPC(llr [LDPCN]float64, maxIters int) (Codeword, int) {
	var m [ldpcgen.M][7]float64 // variable->check messages, indexed [check][slot in that check's row]
	var e [LDPCN][3]float64     // check->variable messages, indexed [variable][slot in that var's row]

	// Initialise m[j][i] = L(i) on every edge.
	for j := 0; j < ldpcgen.M; j++ {
		for k := 0; k < ldpcMatrix.NumRows[j]; k++ {
			n := ldpcMatrix.Nm[j][k]
			m[j][k] = llr[n]
		}
	}

	bestErrors := ldpcgen.M + 1
	var bestBits [LDPCN]byte
	var curBits [LDPCN]byte

	for iter := 0; iter < maxIters; iter++ {
		// Step 1: check-node update e[j][i1] = -2*atanh(prod tanh(-m[j][i2]/2))
		for j := 0; j < ldpcgen.M; j++ {
			numRows := ldpcMatrix.NumRows[j]
			for i1 := 0; i1 < numRows; i1++ {
				a := 1.0
				for i2 := 0; i2 < numRows; i2++ {
					if i2 == i1 {
						continue
					}
					mv := m[j][i2]
					if mv > 20 {
						mv = 20
					} else if mv < -20 {
						mv = -20
					}
					a *= math.Tanh(-mv / 2.0)
				}
				if a > 0.999999 {
					a = 0.999999
				} else if a < -0.999999 {
					a = -0.999999
				}
				n := ldpcMatrix.Nm[j][i1]
				slot := slotOf(&ldpcMatrix.Mn[n], j)
				e[n][slot] = -2.0 * math.Atanh(a)
			}
		}

		// Step 2: hard decision b[i] = (L(i) + sum_j e[j][i]) > 0 ? 1 : 0
		// Sign convention: positive total LLR means bit 0 is more
		// likely, so bit=1 is chosen when the total is <= 0.
		for n := 0; n < LDPCN; n++ {
			total := llr[n] + e[n][0] + e[n][1] + e[n][2]
			if total > 0 {
				curBits[n] = 0
			} else {
				curBits[n] = 1
			}
		}

		errors := syndromeErrors(curBits)
		if errors < bestErrors {
			bestErrors = errors
			bestBits = curBits
			if errors == 0 {
				break
			}
		}

		// Step 3: variable-node update m[j1][i] = L(i) + sum_{j2 != j1} e[j2][i]
		for n := 0; n < LDPCN; n++ {
			for slot := 0; slot < 3; slot++ {
				j1 := ldpcMatrix.Mn[n][slot]
				total := llr[n]
				for other := 0; other < 3; other++ {
					if other == slot {
						continue
					}
					total += e[n][other]
				}
				destSlot := slotOfCheck(j1, n)
				m[j1][destSlot] = total
			}
		}
	}

	var cw Codeword
	for n := 0; n < LDPCN; n++ {
		setBit(cw[:], n, bestBits[n])
	}
	return cw, bestErrors
}

// slotOf returns the index within mn (the 3 checks incident to a
// variable) that equals check j.
func slotOf(mn *[3]int, j int) int {
	for i, v := range mn {
		if v == j {
			return i
		}
	}
	return 0
}

// slotOfCheck returns the index within check j's row that variable n
// occupies.
func slotOfCheck(j, n int) int {
	for i := 0; i < ldpcMatrix.NumRows[j]; i++ {
		if ldpcMatrix.Nm[j][i] == n {
			return i
		}
	}
	return 0
}

func syndromeErrors(bits [LDPCN]byte) int {
	errors := 0
	for j := 0; j < ldpcgen.M; j++ {
		var x byte
		for k := 0; k < ldpcMatrix.NumRows[j]; k++ {
			x ^= bits[ldpcMatrix.Nm[j][k]]
		}
		if x != 0 {
			errors++
		}
	}
	return errors
}
