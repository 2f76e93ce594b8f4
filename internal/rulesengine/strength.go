package rulesengine

import "github.com/riverrun/holdem/internal/poker"

// strengthPercentile is a deliberately lightweight best-5-of-7 scorer. The
// real hand evaluator is an explicit external collaborator;
// this reference engine only needs something internally consistent to
// rank showdowns and to back HandStrength for the Hand Analyzer,
// not a faithful 7-card evaluator. It combines pair/trip/quad
// structure with high-card kickers into a single monotonic score,
// normalized to [0,1] against the best possible score.
func strengthPercentile(hole, board []poker.Card) float64 {
	cards := append(append([]poker.Card(nil), hole...), board...)
	if len(cards) == 0 {
		return 0
	}

	var rankCounts [15]int
	var suitCounts [4]int
	for _, c := range cards {
		rankCounts[c.Rank]++
		suitCounts[c.Suit]++
	}

	flush := false
	for _, n := range suitCounts {
		if n >= 5 {
			flush = true
		}
	}

	pairs, trips, quads := 0, 0, 0
	highCardSum := 0
	for r := poker.Ace; r >= poker.Two; r-- {
		switch rankCounts[r] {
		case 4:
			quads++
		case 3:
			trips++
		case 2:
			pairs++
		}
		if rankCounts[r] > 0 {
			highCardSum += int(r) * rankCounts[r]
		}
	}

	straight := 0
	run := 0
	for r := poker.Two; r <= poker.Ace; r++ {
		if rankCounts[r] > 0 {
			run++
			if run >= 5 {
				straight = int(r)
			}
		} else {
			run = 0
		}
	}

	structureScore := 0
	switch {
	case quads > 0:
		structureScore = 7
	case trips > 0 && pairs > 0:
		structureScore = 6
	case flush:
		structureScore = 5
	case straight > 0:
		structureScore = 4
	case trips > 0:
		structureScore = 3
	case pairs >= 2:
		structureScore = 2
	case pairs == 1:
		structureScore = 1
	}

	// Max possible: structureScore 7 (quads), plus the highest achievable
	// high-card contribution given 7 cards of rank Ace (14*7=98).
	const maxStructure = 7
	const maxHighCard = 14 * 7
	score := float64(structureScore)/float64(maxStructure)*0.8 + float64(highCardSum)/float64(maxHighCard)*0.2
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}
