// Command libexec is built with `go build -buildmode=c-shared` into the
// preload shared library named by INTERCEPT_SESSION_LIBRARY. It exports
// citwatch_execve, citwatch_execvpe, citwatch_execvP, citwatch_posix_spawn
// and citwatch_posix_spawnp, libc-ABI-compatible counterparts of the exec
// family, each rewriting its call into an invocation of the supervisor
// executable when a session is active, and falling back to the real libc
// symbol (resolved via dlsym(RTLD_NEXT, ...)) otherwise. The library does
// not define execve, execvpe, execvP, posix_spawn or posix_spawnp under
// their libc names, so preloading it does not redirect calls made to
// those names.
package main

/*
#cgo LDFLAGS: -ldl
#include <stdlib.h>
#include <unistd.h>
#include <spawn.h>
#include <dlfcn.h>

typedef int (*execve_fn)(const char *, char *const[], char *const[]);
typedef int (*execvpe_fn)(const char *, char *const[], char *const[]);
typedef int (*execvP_fn)(const char *, const char *, char *const[]);
typedef int (*posix_spawn_fn)(pid_t *, const char *, const posix_spawn_file_actions_t *,
                               const posix_spawnattr_t *, char *const[], char *const[]);
typedef int (*posix_spawnp_fn)(pid_t *, const char *, const posix_spawn_file_actions_t *,
                                const posix_spawnattr_t *, char *const[], char *const[]);

static int real_execve(const char *path, char *const argv[], char *const envp[]) {
	execve_fn fn = (execve_fn)dlsym(RTLD_NEXT, "execve");
	if (!fn) return -1;
	return fn(path, argv, envp);
}

static int real_execvpe(const char *file, char *const argv[], char *const envp[]) {
	execvpe_fn fn = (execvpe_fn)dlsym(RTLD_NEXT, "execvpe");
	if (!fn) return -1;
	return fn(file, argv, envp);
}

static int real_execvP(const char *file, const char *search_path, char *const argv[]) {
	execvP_fn fn = (execvP_fn)dlsym(RTLD_NEXT, "execvP");
	if (!fn) return -1;
	return fn(file, search_path, argv);
}

static int real_posix_spawn(pid_t *pid, const char *path, const posix_spawn_file_actions_t *acts,
                             const posix_spawnattr_t *attr, char *const argv[], char *const envp[]) {
	posix_spawn_fn fn = (posix_spawn_fn)dlsym(RTLD_NEXT, "posix_spawn");
	if (!fn) return -1;
	return fn(pid, path, acts, attr, argv, envp);
}

static int real_posix_spawnp(pid_t *pid, const char *file, const posix_spawn_file_actions_t *acts,
                              const posix_spawnattr_t *attr, char *const argv[], char *const envp[]) {
	posix_spawnp_fn fn = (posix_spawnp_fn)dlsym(RTLD_NEXT, "posix_spawnp");
	if (!fn) return -1;
	return fn(pid, file, acts, attr, argv, envp);
}
*/
import "C"

import (
	"os"
	"unsafe"

	"citwatch/internal/shim"
)

func session() shim.Session {
	env := make(map[string]string, len(os.Environ()))
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				env[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return shim.LoadSession(env)
}

func cStringSlice(argv **C.char) []string {
	var out []string
	if argv == nil {
		return out
	}
	base := unsafe.Pointer(argv)
	for i := 0; ; i++ {
		p := *(**C.char)(unsafe.Pointer(uintptr(base) + uintptr(i)*unsafe.Sizeof(argv)))
		if p == nil {
			break
		}
		out = append(out, C.GoString(p))
	}
	return out
}

func goStringSlice(ss []string) **C.char {
	argv := C.malloc(C.size_t(len(ss)+1) * C.size_t(unsafe.Sizeof(uintptr(0))))
	base := (*[1 << 20]*C.char)(argv)
	for i, s := range ss {
		base[i] = C.CString(s)
	}
	base[len(ss)] = nil
	return (**C.char)(argv)
}

func freeCStringSlice(argv **C.char, n int) {
	base := (*[1 << 20]*C.char)(unsafe.Pointer(argv))
	for i := 0; i < n; i++ {
		C.free(unsafe.Pointer(base[i]))
	}
	C.free(unsafe.Pointer(argv))
}

// rewriteOrPassthrough resolves and rewrites one exec call, returning the
// real path to hand to the underlying call and the argv to pass it. When
// the session is inactive or resolution fails, ok is false and the caller
// should fall through to the real, un-rewritten libc call.
func rewriteOrPassthrough(resolve func() (string, error), argv []string) (path string, newArgv []string, ok bool) {
	s := session()
	if !s.Valid {
		return "", nil, false
	}
	resolved, err := resolve()
	if err != nil {
		return "", nil, false
	}
	return s.Reporter, shim.Rewrite(s, resolved, argv), true
}

//export citwatch_execve
func citwatch_execve(path *C.char, argv **C.char, envp **C.char) C.int {
	goPath := C.GoString(path)
	goArgv := cStringSlice(argv)

	reporter, newArgv, ok := rewriteOrPassthrough(func() (string, error) {
		return shim.ResolveExecve(goPath)
	}, goArgv)
	if !ok {
		return C.real_execve(path, argv, envp)
	}

	cReporter := C.CString(reporter)
	defer C.free(unsafe.Pointer(cReporter))
	cArgv := goStringSlice(newArgv)
	defer freeCStringSlice(cArgv, len(newArgv))
	return C.real_execve(cReporter, cArgv, envp)
}

//export citwatch_execvpe
func citwatch_execvpe(file *C.char, argv **C.char, envp **C.char) C.int {
	goFile := C.GoString(file)
	goArgv := cStringSlice(argv)
	goEnv := os.Getenv("PATH")

	reporter, newArgv, ok := rewriteOrPassthrough(func() (string, error) {
		return shim.ResolveExecvpe(goFile, goEnv)
	}, goArgv)
	if !ok {
		return C.real_execvpe(file, argv, envp)
	}

	cReporter := C.CString(reporter)
	defer C.free(unsafe.Pointer(cReporter))
	cArgv := goStringSlice(newArgv)
	defer freeCStringSlice(cArgv, len(newArgv))
	return C.real_execve(cReporter, cArgv, envp)
}

//export citwatch_execvP
func citwatch_execvP(file *C.char, searchPath *C.char, argv **C.char) C.int {
	goFile := C.GoString(file)
	goSearch := C.GoString(searchPath)
	goArgv := cStringSlice(argv)

	reporter, newArgv, ok := rewriteOrPassthrough(func() (string, error) {
		return shim.ResolveExecvP(goFile, goSearch)
	}, goArgv)
	if !ok {
		return C.real_execvP(file, searchPath, argv)
	}

	cReporter := C.CString(reporter)
	defer C.free(unsafe.Pointer(cReporter))
	cSearch := C.CString("/bin:/usr/bin")
	defer C.free(unsafe.Pointer(cSearch))
	cArgv := goStringSlice(newArgv)
	defer freeCStringSlice(cArgv, len(newArgv))
	return C.real_execvP(cReporter, cSearch, cArgv)
}

//export citwatch_posix_spawn
func citwatch_posix_spawn(pid *C.pid_t, path *C.char, acts *C.posix_spawn_file_actions_t,
	attr *C.posix_spawnattr_t, argv **C.char, envp **C.char) C.int {
	goPath := C.GoString(path)
	goArgv := cStringSlice(argv)

	reporter, newArgv, ok := rewriteOrPassthrough(func() (string, error) {
		return shim.ResolveExecve(goPath)
	}, goArgv)
	if !ok {
		return C.real_posix_spawn(pid, path, acts, attr, argv, envp)
	}

	cReporter := C.CString(reporter)
	defer C.free(unsafe.Pointer(cReporter))
	cArgv := goStringSlice(newArgv)
	defer freeCStringSlice(cArgv, len(newArgv))
	return C.real_posix_spawn(pid, cReporter, acts, attr, cArgv, envp)
}

//export citwatch_posix_spawnp
func citwatch_posix_spawnp(pid *C.pid_t, file *C.char, acts *C.posix_spawn_file_actions_t,
	attr *C.posix_spawnattr_t, argv **C.char, envp **C.char) C.int {
	goFile := C.GoString(file)
	goArgv := cStringSlice(argv)
	goEnv := os.Getenv("PATH")

	reporter, newArgv, ok := rewriteOrPassthrough(func() (string, error) {
		return shim.ResolveExecvpe(goFile, goEnv)
	}, goArgv)
	if !ok {
		return C.real_posix_spawnp(pid, file, acts, attr, argv, envp)
	}

	cReporter := C.CString(reporter)
	defer C.free(unsafe.Pointer(cReporter))
	cArgv := goStringSlice(newArgv)
	defer freeCStringSlice(cArgv, len(newArgv))
	return C.real_posix_spawn(pid, cReporter, acts, attr, cArgv, envp)
}

func main() {}
