package flags

// catchAllTable recognises the miscellaneous "other" flags (recogniser 6)
// that don't fit the previous five categories.
var catchAllTable = ruleTable{
	exactOpts("-Xassembler", 1, Other),
	prefix("-Wa,", Other),
	exact("-ansi", Other),
	exactOpts("-aux-info", 1, Other),
	gluedEq("-std", Other),
	pattern(`^-O.*$`, 0, Other),
	pattern(`^-g.*$`, 0, Other),
	prefix("-f", Other),
	prefix("-m", Other),
	prefix("-p", Other),
	prefix("-W", Other),
	prefix("-tno", Other),
	prefix("-save", Other),
	prefix("-no", Other),
	prefix("-d", Other),
	pattern(`^-[EQXY]$`, 1, Other),
	prefix("--", Other),
}

// catchAllRecogniser tries the Other-flag table first; anything that
// matches none of those rules is treated as a bare linker-object-file
// token (an object file, archive, or otherwise unclassifiable argument
// that is neither a recognised flag nor a source file).
type catchAllRecogniser struct {
	table ruleTable
}

func (c catchAllRecogniser) match(tokens []string, pos int) (Flag, int, bool) {
	if flag, consumed, ok := c.table.match(tokens, pos); ok {
		return flag, consumed, ok
	}
	return Flag{Arguments: []string{tokens[pos]}, Type: LinkerObjectFile}, 1, true
}
