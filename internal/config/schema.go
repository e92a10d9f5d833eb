package config

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// schemaCUE constrains a decoded Config. Durations are encoded as
// nanosecond integers.
const schemaCUE = `
url:              string & =~"^https?://"
master_path:      string & != ""
input_dir:        string & != ""
log_path:         string & != ""
ledger_path:      string
snapshot_prefix:  string
interval:         int & >=1000000000
timeout:          int & >0
trailer_lines:    int & >=0
validate_trailer: bool
max_body_bytes:   int & >0
`

// ValidationError reports a config that does not satisfy the schema.
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + e.Details
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("config.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := ctx.Encode(cfg)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Details: strings.TrimSpace(cueerrors.Details(err, nil))}
	}
	return nil
}
