package flags

// kindOfOutputTable recognises flags that affect what the compiler
// produces or whether it compiles at all (recogniser 1).
var kindOfOutputTable = ruleTable{
	exactOpts("-x", 1, KindOfOutput),
	exact("-c", KindOfOutputNoLinking),
	exact("-S", KindOfOutputNoLinking),
	exact("-E", KindOfOutputNoLinking),
	exactOpts("-o", 1, KindOfOutputOutput),
	exactOpts("-dumpbase", 1, KindOfOutput),
	exactOpts("-dumpbase-ext", 1, KindOfOutput),
	exactOpts("-dumpdir", 1, KindOfOutput),
	exact("-v", KindOfOutputInfo),
	exact("-###", KindOfOutputInfo),
	prefix("--help", KindOfOutputInfo),
	exact("--target-help", KindOfOutputInfo),
	exact("--version", KindOfOutputInfo),
	exact("-pass-exit-codes", KindOfOutput),
	exact("-pipe", KindOfOutput),
	gluedEq("-specs", KindOfOutput),
	exactOpts("-wrapper", 1, KindOfOutput),
	gluedEq("-ffile-prefix-map", KindOfOutput),
	prefix("-fplugin-arg-", KindOfOutput),
	gluedEqOrSep("-fplugin", KindOfOutput),
	prefix("-fdump-ada-spec", KindOfOutput),
	gluedEq("-fada-spec-parent", KindOfOutput),
	gluedEq("-fdump-go-spec", KindOfOutput),
	pattern(`^@.+$`, 0, KindOfOutput),
}
