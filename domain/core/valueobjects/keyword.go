package valueobjects

// KeywordType distinguishes single terms from multi-word phrases
type KeywordType string

const (
	KeywordSingle KeywordType = "single"
	KeywordPhrase KeywordType = "phrase"
)

// KeywordEntry is one ranked keyword candidate
type KeywordEntry struct {
	Keyword   string
	Type      KeywordType
	Count     int
	Density   float64
	Relevance float64
}

// IsPhrase reports whether the entry spans more than one word
func (k KeywordEntry) IsPhrase() bool {
	return k.Type == KeywordPhrase
}
