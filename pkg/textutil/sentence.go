package textutil

// Sentence is a span of text delimited by sentence-final punctuation.
type Sentence struct {
	Start int // rune offset, inclusive
	End   int // rune offset, exclusive
	Text  string
}

// sentenceEnders terminate a sentence; the terminator stays in the sentence.
var sentenceEnders = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
	'!': true,
	'?': true,
}

var openers = map[rune]bool{'「': true, '『': true, '（': true, '(': true}

var closers = map[rune]bool{'」': true, '』': true, '）': true, ')': true}

// SplitSentences splits text on sentence-final punctuation and line breaks.
// Terminators inside brackets do not split, so 「行こう！」と言った。 stays
// one sentence. A line break always splits and resets bracket depth. Blank
// sentences are dropped.
func SplitSentences(text string) []Sentence {
	runes := []rune(text)
	var out []Sentence
	start, depth := 0, 0
	emit := func(end int) {
		if end > start {
			s := string(runes[start:end])
			if !IsBlank(s) {
				out = append(out, Sentence{Start: start, End: end, Text: s})
			}
		}
		start = end
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\n':
			emit(i)
			start = i + 1
			depth = 0
		case openers[r]:
			depth++
		case closers[r]:
			if depth > 0 {
				depth--
			}
		case sentenceEnders[r] && depth == 0:
			end := i + 1
			for end < len(runes) && sentenceEnders[runes[end]] {
				end++
			}
			emit(end)
			i = end - 1
		}
	}
	emit(len(runes))
	return out
}

// SentenceIndex returns the index of the sentence containing offset, or -1.
func SentenceIndex(sentences []Sentence, offset int) int {
	lo, hi := 0, len(sentences)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case offset < sentences[mid].Start:
			hi = mid - 1
		case offset >= sentences[mid].End:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}
