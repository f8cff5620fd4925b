package intent

import "strings"

// fillerTokens are acknowledgement/hesitation noises stripped before any
// matching or length checks.
var fillerTokens = map[string]bool{
	"હા":    true,
	"હં":    true,
	"હમ":    true,
	"ઉમ":    true,
	"અમ":    true,
	"જી":    true,
	"સર":    true,
	"હેલો":  true,
	"hello": true,
	"haan":  true,
	"ok":    true,
	"okay":  true,
	"ઓકે":   true,
}

// domainDictionary maps transliterated and English loanword tokens to their
// Gujarati equivalents so the keyword tables match regardless of how the
// caller mixed languages. Values may be multi-token.
var domainDictionary = map[string]string{
	"done":     "પતી ગયું",
	"complete": "પૂર્ણ",
	"completed": "પતી ગયું",
	"finish":   "પતી ગયું",
	"finished": "પતી ગયું",
	"pending":  "બાકી",
	"baki":     "બાકી",
	"nathi":    "નથી",
	"not":      "નથી",
	"kaam":     "કામ",
	"kam":      "કામ",
	"thai":     "થઈ",
	"gayu":     "ગયું",
	"thayu":    "થયું",
	"purn":     "પૂર્ણ",
	"busy":     "વ્યસ્ત",
	"vyast":    "વ્યસ્ત",
	"later":    "પછી",
	"pachhi":   "પછી",
	"atyare":   "અત્યારે",
	"time":     "સમય",
	"samay":    "સમય",
	"meeting":  "મીટિંગ",
	"free":     "ફ્રી",
	"call":     "કૉલ",
	"problem":  "સમસ્યા",
}

// punctReplacer strips punctuation that speech-to-text sprinkles into
// transcripts.
var punctReplacer = strings.NewReplacer(
	".", " ", ",", " ", "?", " ", "!", " ", ";", " ", ":", " ",
	"\"", " ", "'", " ", "(", " ", ")", " ", "-", " ",
)

// Normalize lower-cases the utterance, removes punctuation and filler
// tokens, and rewrites mixed-language tokens through the domain dictionary.
// The result is a single space-joined Gujarati-script string suitable for
// the keyword tables. Deterministic for a given input.
func Normalize(raw string) string {
	lowered := strings.ToLower(punctReplacer.Replace(raw))

	var out []string
	for _, tok := range strings.Fields(lowered) {
		if fillerTokens[tok] {
			continue
		}
		if mapped, ok := domainDictionary[tok]; ok {
			out = append(out, mapped)
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// WordCount returns the number of tokens in a normalized utterance.
func WordCount(norm string) int {
	if norm == "" {
		return 0
	}
	return len(strings.Fields(norm))
}
