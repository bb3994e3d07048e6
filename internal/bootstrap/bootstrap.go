// Package bootstrap assembles the engine's starting environment: a fresh
// primitive frame, with env/r5.scm's library procedures evaluated on top of
// it. Grounded on original_source/src/primitives.c's c_env_version, which
// stamps every environment the interpreter builds with the engine's release
// so a saved/loaded env can be checked against the binary that reads it;
// here the same version gate instead protects the embedded bootstrap
// source against having drifted out of sync with the engine it ships in.
package bootstrap

import (
	"embed"

	"golang.org/x/mod/semver"

	"github.com/pedde-lisp/r5scheme/internal/env"
	"github.com/pedde-lisp/r5scheme/internal/eval"
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/ports"
	"github.com/pedde-lisp/r5scheme/internal/prims"
	"github.com/pedde-lisp/r5scheme/internal/reader"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

//go:embed env/r5.scm
var bootstrapFS embed.FS

// MinVersion is the oldest env/r5.scm `;; version:` header this build of
// the engine accepts. Bump it whenever a bootstrap form is added that a
// primitive predating that release doesn't support.
const MinVersion = "v1.0.0"

// New builds the default global environment: a fresh frame carrying every
// native spec §4.9 names, with env/r5.scm's derived procedures defined on
// top of it (spec §4.1/§6 — the environment the REPL and `load` start
// with).
func New() (*value.Value, error) {
	src, err := bootstrapFS.ReadFile("env/r5.scm")
	if err != nil {
		return nil, err
	}

	if verr := checkVersion(src); verr != nil {
		return nil, verr
	}

	e := env.New()
	prims.Register(e)

	ctx := exec.New(e)
	forms, rerr := reader.ParsePort(ports.NewStringInput(string(src)), "env/r5.scm")
	if rerr != nil {
		return nil, rerr
	}
	for _, form := range forms {
		eval.Eval(ctx, form)
	}
	return e, nil
}

// checkVersion parses the leading `;; version: X.Y.Z` header off src and
// rejects a bootstrap source older than MinVersion, or one carrying no
// header at all.
func checkVersion(src []byte) error {
	header := firstLine(src)
	const prefix = ";; version: "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return lisperrors.New(lisperrors.KindSyntax, "env/r5.scm: missing `;; version:` header")
	}
	v := "v" + header[len(prefix):]
	if !semver.IsValid(v) {
		return lisperrors.Newf(lisperrors.KindSyntax, "env/r5.scm: invalid version header %q", v)
	}
	if semver.Compare(v, MinVersion) < 0 {
		return lisperrors.Newf(lisperrors.KindSystem, "env/r5.scm: bootstrap version %s older than minimum supported %s", v, MinVersion)
	}
	return nil
}

func firstLine(src []byte) string {
	for i, b := range src {
		if b == '\n' {
			return string(src[:i])
		}
	}
	return string(src)
}
