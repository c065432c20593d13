package textutil

import "testing"

func TestTokenizeTracksSentences(t *testing.T) {
	tokens := Tokenize("Cats purr. Dogs bark! Birds, fly?")
	if len(tokens) != 6 {
		t.Fatalf("expected 6 tokens, got %d: %+v", len(tokens), tokens)
	}
	wantSentences := []int{0, 0, 1, 1, 2, 2}
	for i, tok := range tokens {
		if tok.Sentence != wantSentences[i] {
			t.Fatalf("token %q expected sentence %d, got %d", tok.Text, wantSentences[i], tok.Sentence)
		}
		if tok.Offset != i {
			t.Fatalf("token %q expected offset %d, got %d", tok.Text, i, tok.Offset)
		}
	}
	if tokens[0].Lower != "cats" || tokens[0].Text != "Cats" {
		t.Fatalf("unexpected casing handling: %+v", tokens[0])
	}
}

func TestTokenizeUnicodeAndDigits(t *testing.T) {
	words := Words("Привет DOC_0001 версия-2")
	want := []string{"привет", "doc", "0001", "версия", "2"}
	if len(words) != len(want) {
		t.Fatalf("expected %v, got %v", want, words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, words)
		}
	}
}

func TestContentWordsDropsStopwords(t *testing.T) {
	words := ContentWords("Dogs are mammals too.")
	if len(words) != 2 || words[0] != "dogs" || words[1] != "mammals" {
		t.Fatalf("unexpected content words %v", words)
	}
}
