package config

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/bluehost/pam-rbld/internal/rbld/domain"
)

// DebugToken is the only value accepted as the optional third module parameter.
const DebugToken = "debug"

// Error message constants for consistent error handling
const (
	errTooFewArgs  = "incorrectly configured! should be <querylist> <socketpath> [debug], got %d argument(s)"
	errBadThirdArg = "%q is not a valid argument, only %q is allowed"
	errInvalidArgs = "invalid module arguments: %w"
)

// ModuleArgs are the positional module parameters of one check.
type ModuleArgs struct {
	// ListID names the rbld list to query.
	ListID string `validate:"required,list_id"`

	// SocketPath is the filesystem path of the rbld unix socket.
	// 107 bytes is what fits sockaddr_un.sun_path with its terminator.
	SocketPath string `validate:"required,max=107"`

	// Debug turns on verbose diagnostics for this check.
	Debug bool

	// Extra holds tokens past the third; they are accepted and ignored.
	Extra []string
}

// validListID accepts list identifiers that fit in one token of the request line.
func validListID(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return v != "" && strings.IndexFunc(v, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) < 0
}

// registerArgValidation registers the "list_id" tag. Swappable in tests.
var registerArgValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("list_id", validListID)
}

// ParseArgs validates the ordered module tokens: <list> <socket> [debug].
// Every failure wraps domain.ErrConfiguration.
func ParseArgs(tokens []string) (ModuleArgs, error) {
	if len(tokens) < 2 {
		return ModuleArgs{}, fmt.Errorf("%w: "+errTooFewArgs, domain.ErrConfiguration, len(tokens))
	}

	args := ModuleArgs{ListID: tokens[0], SocketPath: tokens[1]}
	if len(tokens) > 2 {
		if tokens[2] != DebugToken {
			return ModuleArgs{}, fmt.Errorf("%w: "+errBadThirdArg, domain.ErrConfiguration, tokens[2], DebugToken)
		}
		args.Debug = true
		args.Extra = append([]string(nil), tokens[3:]...)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerArgValidation(validate); err != nil {
		return ModuleArgs{}, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if err := validate.Struct(&args); err != nil {
		return ModuleArgs{}, fmt.Errorf("%w: "+errInvalidArgs, domain.ErrConfiguration, err)
	}

	return args, nil
}
