package flags

// directorySearchTable recognises include/library search-path flags
// (recogniser 3).
var directorySearchTable = ruleTable{
	gluedOrSep("-I", DirectorySearch),
	gluedEqOrSep("-iplugindir", DirectorySearch),
	pattern(`^-i[A-Za-z_-]+$`, 1, DirectorySearch),
	exact("-nostdinc++", DirectorySearch),
	exact("-nostdinc", DirectorySearch),
	exact("-no-canonical-prefixes", DirectorySearch),
	exact("-no-sysroot-suffix", DirectorySearch),
	gluedOrSep("-L", DirectorySearchLinker),
	gluedOrSep("-B", DirectorySearch),
	gluedEqOrSep("--sysroot", DirectorySearch),
}
