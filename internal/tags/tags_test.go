package tags

import (
	"reflect"
	"testing"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		expected string
	}{
		{"sorted output", []string{"quantum", "hypersonic"}, ",hypersonic,quantum,"},
		{"duplicates collapse", []string{"ai", "ai", "AI "}, ",ai,"},
		{"empty set", nil, ""},
		{"only blanks", []string{" ", ""}, ""},
		{"single token", []string{"hypersonic"}, ",hypersonic,"},
		{"delimiter tokens dropped", []string{"fusion, fission", "quantum"}, ",quantum,"},
		{"only delimiter tokens", []string{"a,b"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(tt.tokens); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		token    string
		expected bool
	}{
		{"hypersonic", true},
		{"rocket lab", true},
		{"ai/ml", true},
		{"", false},
		{"fusion, fission", false},
		{",", false},
	}

	for _, tt := range tests {
		if got := Valid(tt.token); got != tt.expected {
			t.Errorf("Valid(%q): expected %v, got %v", tt.token, tt.expected, got)
		}
	}
}

func TestSerialize_RoundTripKeepsEveryValidToken(t *testing.T) {
	got := Deserialize(Serialize([]string{"fusion, fission", "fusion", "quantum"}))
	if !reflect.DeepEqual(got, []string{"fusion", "quantum"}) {
		t.Errorf("Expected [fusion quantum], got %v", got)
	}
}

func TestSerialize_RoundTripIndependentOfOrder(t *testing.T) {
	sets := [][]string{
		{"alpha", "beta", "gamma"},
		{"gamma", "alpha", "beta"},
		{"beta", "gamma", "alpha"},
	}
	expected := []string{"alpha", "beta", "gamma"}

	for _, set := range sets {
		got := Deserialize(Serialize(set))
		if !reflect.DeepEqual(got, expected) {
			t.Errorf("Round trip of %v: expected %v, got %v", set, expected, got)
		}
	}
}

func TestDeserialize(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected []string
	}{
		{"guarded", ",hypersonic,quantum,", []string{"hypersonic", "quantum"}},
		{"plain legacy list", "alpha,beta", []string{"alpha", "beta"}},
		{"spaces preserved case", ",Hypersonic, Quantum ,", []string{"Hypersonic", "Quantum"}},
		{"stored order kept", ",zeta,alpha,", []string{"zeta", "alpha"}},
		{"empty", "", []string{}},
		{"only delimiters", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deserialize(tt.field)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		field    string
		expected string
	}{
		{",Hypersonic, Quantum ,", ",hypersonic,quantum,"},
		{",hypersonic,quantum,", ",hypersonic,quantum,"},
		{"alpha , beta", ",alpha,beta,"},
		{"", ""},
		{" , ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeField(tt.field); got != tt.expected {
			t.Errorf("NormalizeField(%q): expected %q, got %q", tt.field, tt.expected, got)
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains(",Hypersonic, Quantum ,", "quantum") {
		t.Error("Expected space-drifted field to contain quantum")
	}
	if !Contains(",Hypersonic, Quantum ,", "HYPERSONIC") {
		t.Error("Expected case-insensitive match")
	}
	if Contains(",hypersonics,", "hypersonic") {
		t.Error("Expected no match on a token that is only a prefix of another")
	}
	if Contains(",space station module,", "station") {
		t.Error("Expected no match on a partial multi-word token")
	}
	if Contains(",alpha,", "  ") {
		t.Error("Expected empty token never to match")
	}
}

func TestParseFilter(t *testing.T) {
	repeated := ParseFilter([]string{"Quantum", " hypersonic ", "quantum"})
	joined := ParseFilter([]string{"Quantum, hypersonic,quantum"})

	expected := []string{"quantum", "hypersonic"}
	if !reflect.DeepEqual(repeated, expected) {
		t.Errorf("Repeated form: expected %v, got %v", expected, repeated)
	}
	if !reflect.DeepEqual(joined, expected) {
		t.Errorf("Joined form: expected %v, got %v", expected, joined)
	}

	if got := ParseFilter([]string{""}); len(got) != 0 {
		t.Errorf("Expected no tokens for empty value, got %v", got)
	}
	if got := ParseFilter(nil); len(got) != 0 {
		t.Errorf("Expected no tokens for nil input, got %v", got)
	}
}
