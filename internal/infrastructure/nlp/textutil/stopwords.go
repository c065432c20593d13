package textutil

import "unicode/utf8"

var stopwords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "almost", "also", "although",
	"always", "am", "among", "an", "and", "another", "any", "are", "around", "as", "at",
	"be", "became", "because", "become", "been", "before", "being", "below", "between",
	"both", "but", "by", "can", "cannot", "could", "did", "do", "does", "doing", "done",
	"down", "due", "during", "each", "either", "else", "enough", "etc", "even", "ever",
	"every", "few", "for", "from", "further", "had", "has", "have", "having", "he", "her",
	"here", "hers", "herself", "him", "himself", "his", "how", "however", "i", "if", "in",
	"into", "is", "it", "its", "itself", "just", "least", "less", "may", "me", "might",
	"more", "most", "much", "must", "my", "myself", "neither", "no", "nor", "not", "now",
	"of", "off", "often", "on", "once", "one", "only", "or", "other", "others", "otherwise",
	"our", "ours", "ourselves", "out", "over", "own", "per", "perhaps", "rather", "same",
	"she", "should", "since", "so", "some", "such", "than", "that", "the", "their",
	"theirs", "them", "themselves", "then", "there", "therefore", "these", "they", "this",
	"those", "though", "through", "thus", "to", "too", "toward", "under", "until", "up",
	"upon", "us", "very", "via", "was", "we", "well", "were", "what", "whatever", "when",
	"where", "whether", "which", "while", "who", "whoever", "whom", "whose", "why", "will",
	"with", "within", "without", "would", "yet", "you", "your", "yours", "yourself",
	"yourselves",
)

// IsStopword reports whether the lowercase word is in the English stopword list.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

func toSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

// IsCandidate reports whether a lowercase token may become a keyword: at
// least three runes, not a number and not a stopword.
func IsCandidate(word string) bool {
	if utf8.RuneCountInString(word) < 3 {
		return false
	}
	return !IsNumeric(word) && !IsStopword(word)
}
