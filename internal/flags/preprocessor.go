package flags

// preprocessorTable recognises preprocessor-affecting flags (recogniser 2
// of the six-recogniser grammar).
var preprocessorTable = ruleTable{
	gluedOrSep("-A", Preprocessor),
	gluedOrSep("-D", Preprocessor),
	gluedOrSep("-U", Preprocessor),
	exactOpts("-include", 1, Preprocessor),
	exactOpts("-imacros", 1, Preprocessor),
	exact("-undef", Preprocessor),
	exact("-pthread", Preprocessor),
	exactOpts("-MF", 1, PreprocessorMake),
	exactOpts("-MT", 1, PreprocessorMake),
	exactOpts("-MQ", 1, PreprocessorMake),
	exact("-M", PreprocessorMake),
	exact("-MM", PreprocessorMake),
	exact("-MG", PreprocessorMake),
	exact("-MP", PreprocessorMake),
	exact("-MD", PreprocessorMake),
	exact("-MMD", PreprocessorMake),
	exact("-C", Preprocessor),
	exact("-CC", Preprocessor),
	exact("-P", Preprocessor),
	prefix("-traditional", Preprocessor),
	exact("-trigraphs", Preprocessor),
	exact("-remap", Preprocessor),
	exact("-H", Preprocessor),
	pattern(`^-d[MDNIU]$`, 0, Preprocessor),
	exactOpts("-Xpreprocessor", 1, Preprocessor),
	prefix("-Wp,", Preprocessor),
}
