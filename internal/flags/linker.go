package flags

// linkerTable recognises linker-affecting flags (recogniser 4).
var linkerTable = ruleTable{
	gluedEq("-flinker-output", Linker),
	gluedEq("-fuse-ld", Linker),
	gluedOrSep("-l", Linker),
	exact("-nostartfiles", Linker),
	exact("-nodefaultlibs", Linker),
	exact("-nolibc", Linker),
	exact("-nostdlib", Linker),
	gluedEq("-entry", Linker),
	gluedOrSep("-e", Linker),
	exact("-static-pie", Linker),
	exact("-pie", Linker),
	exact("-no-pie", Linker),
	exact("-r", Linker),
	exact("-rdynamic", Linker),
	exact("-s", Linker),
	exact("-symbolic", Linker),
	prefix("-static-lib", Linker),
	prefix("-shared-lib", Linker),
	prefix("-static", Linker),
	prefix("-shared", Linker),
	exactOpts("-T", 1, Linker),
	exactOpts("-Xlinker", 1, Linker),
	prefix("-Wl,", Linker),
	exactOpts("-u", 1, Linker),
	exactOpts("-z", 1, Linker),
}
