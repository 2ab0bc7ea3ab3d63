package valueobjects

// Stats holds the content statistics of an analyzed text
type Stats struct {
	WordCount      int
	SentenceCount  int
	CharacterCount int
}

// AverageSentenceLength returns words per sentence, or 0 when there are no sentences
func (s Stats) AverageSentenceLength() float64 {
	if s.SentenceCount == 0 {
		return 0
	}
	return float64(s.WordCount) / float64(s.SentenceCount)
}

// IsEmpty reports whether the text contained no words
func (s Stats) IsEmpty() bool {
	return s.WordCount == 0
}

// ReadabilityLabel is the discrete reading-difficulty band
type ReadabilityLabel string

const (
	ReadabilityEasy   ReadabilityLabel = "Easy"
	ReadabilityMedium ReadabilityLabel = "Medium"
	ReadabilityHard   ReadabilityLabel = "Hard"
)

// Readability pairs the numeric reading-ease score with its band
type Readability struct {
	Label ReadabilityLabel
	Score float64
}
