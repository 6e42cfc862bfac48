package sample

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the structural rules of a project: every sample has an id,
// child ids are non-empty, and the image path (if any) can be used as a prefix.
// Duplicate ids and dangling children are tolerated; see [Check].
func Validate(p *Project) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidProject, "project cannot be nil")
	}
	if err := validatorInstance().Struct(p); err != nil {
		return formatValidationError(err)
	}
	if err := errors.ValidateImagePath(p.ImagePath); err != nil {
		return err
	}
	for name, ids := range p.Factors {
		if err := errors.ValidateFactorName(name); err != nil {
			return err
		}
		if len(ids) == 0 {
			return errors.New(errors.ErrCodeInvalidProject, "factor %q lists no samples", name)
		}
	}
	return nil
}

// ValidateState applies the same rules to a pushed state.
func ValidateState(st State) error {
	if err := validatorInstance().Struct(st); err != nil {
		return formatValidationError(err)
	}
	return errors.ValidateImagePath(st.ImagePath)
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidProject, err, "validate project")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(errors.ErrCodeInvalidProject, "%s", strings.Join(msgs, "; "))
}
