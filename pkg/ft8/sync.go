package ft8

import "sort"

// Candidate is a (time, frequency) coordinate surviving coarse Costas
// sync search, per spec §3. TimeBin/FreqBin are indices into the
// Waterfall that produced them.
type Candidate struct {
	TimeBin int
	FreqBin int
	Score   float64
}

type costasBlock struct {
	offset  int
	pattern []int
}

func costasBlocks(protocol Protocol) []costasBlock {
	if protocol == ProtocolFT4 {
		blocks := make([]costasBlock, 4)
		for i, off := range FT4CostasOffsets {
			blocks[i] = costasBlock{offset: off, pattern: FT4Costas[i][:]}
		}
		return blocks
	}
	blocks := make([]costasBlock, 3)
	for i, off := range FT8CostasOffsets {
		blocks[i] = costasBlock{offset: off, pattern: FT8Costas[:]}
	}
	return blocks
}

// FindCandidates searches a waterfall's (timeBin, freqBin) grid for
// Costas-sync matches within [minHz, maxHz], keeping at most
// maxCandidates above minScore after non-maximum suppression. Grounded
// on madpsy-ka9q_ubersdr's sync.go calculateFT8/FT4SyncScore (accumulate
// expected-tone magnitude minus neighbouring off-tone magnitude), but
// operating on the standardised float32 waterfall directly rather than
// a uint8-quantised one, and assuming one waterfall block per symbol
// (see waterfall.go's BuildSpectrogram doc).
func FindCandidates(wf *Waterfall, protocol Protocol, minHz, maxHz float64, maxCandidates int, minScore float64) []Candidate {
	numTones := protocol.ToneCount()
	toneBinSpacing := protocol.ToneSpacing() / wf.BinHz
	blocks := costasBlocks(protocol)

	minBin := int(minHz / wf.BinHz)
	maxBin := int(maxHz / wf.BinHz)
	if maxBin > wf.NumBins {
		maxBin = wf.NumBins
	}

	span := int(float64(numTones-1)*toneBinSpacing) + 1

	var candidates []Candidate
	for t0 := 0; t0 < wf.NumBlocks; t0++ {
		for f0 := minBin; f0+span < maxBin; f0++ {
			score := costasScore(wf, t0, f0, toneBinSpacing, numTones, blocks)
			if score >= minScore {
				candidates = append(candidates, Candidate{TimeBin: t0, FreqBin: f0, Score: score})
			}
		}
	}

	candidates = nonMaxSuppress(candidates)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

func costasScore(wf *Waterfall, t0, f0 int, toneBinSpacing float64, numTones int, blocks []costasBlock) float64 {
	var score float64
	count := 0

	for _, blk := range blocks {
		for k, tone := range blk.pattern {
			t := t0 + blk.offset + k
			if t < 0 || t >= wf.NumBlocks {
				continue
			}
			bin := f0 + roundToInt(float64(tone)*toneBinSpacing)
			expected := wf.at(t, bin)

			var otherSum float64
			otherCount := 0
			for tone2 := 0; tone2 < numTones; tone2++ {
				if tone2 == tone {
					continue
				}
				bin2 := f0 + roundToInt(float64(tone2)*toneBinSpacing)
				otherSum += wf.at(t, bin2)
				otherCount++
			}
			if otherCount > 0 {
				score += expected - otherSum/float64(otherCount)
				count++
			}
		}
	}

	if count > 0 {
		return score / float64(count)
	}
	return score
}

// nonMaxSuppress drops any candidate that has a strictly better-scoring
// candidate within one time bin and one frequency bin, per spec §4.5's
// "+/-1-symbol +/-1-bin neighbourhood" rule.
func nonMaxSuppress(candidates []Candidate) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		suppressed := false
		for _, other := range candidates {
			if other == c {
				continue
			}
			dt := other.TimeBin - c.TimeBin
			df := other.FreqBin - c.FreqBin
			if dt >= -1 && dt <= 1 && df >= -1 && df <= 1 && other.Score > c.Score {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, c)
		}
	}
	return kept
}

func roundToInt(x float64) int {
	if x >= 0 {
		return int(x + 0.5)
	}
	return int(x - 0.5)
}
