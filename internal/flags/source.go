package flags

// sourceRecogniser classifies any token whose final dot-extension is a
// recognised source extension (recogniser 5).
type sourceRecogniser struct{}

func (sourceRecogniser) match(tokens []string, pos int) (Flag, int, bool) {
	tok := tokens[pos]
	if !IsSource(tok) {
		return Flag{}, 0, false
	}
	return Flag{Arguments: []string{tok}, Type: Source}, 1, true
}
