package synthesis

import (
	"regexp"

	"gosyrec/pkg/syrec"

	"github.com/pkg/errors"
)

// DefaultMainModule is the entry module used when none is configured.
const DefaultMainModule = "main"

var moduleIdentifier = regexp.MustCompile(`^(_|[a-zA-Z])+\w*$`)

// SelectMainModule picks the entry module of prog.
//
// An explicit name must be a valid identifier matching exactly one module.
// Otherwise the unique module called "main" is used, falling back to the
// last declared module.
func SelectMainModule(prog *syrec.Program, name *string) (*syrec.Module, error) {
	if prog == nil || len(prog.Modules) == 0 {
		return nil, ErrNoModules
	}

	if name != nil {
		if *name == "" {
			return nil, errors.Wrap(ErrInvalidMainModule, "empty identifier")
		}
		if !moduleIdentifier.MatchString(*name) {
			return nil, errors.Wrapf(ErrInvalidMainModule, "%q", *name)
		}
		matches := prog.FindModules(*name)
		switch len(matches) {
		case 0:
			return nil, errors.Wrapf(ErrModuleNotFound, "%q", *name)
		case 1:
			return matches[0], nil
		}
		return nil, errors.Wrapf(ErrAmbiguousModule, "%d modules named %q", len(matches), *name)
	}

	mains := prog.FindModules(DefaultMainModule)
	switch len(mains) {
	case 0:
		return prog.Modules[len(prog.Modules)-1], nil
	case 1:
		return mains[0], nil
	}
	return nil, errors.Wrapf(ErrAmbiguousModule, "%d modules named %q", len(mains), DefaultMainModule)
}
