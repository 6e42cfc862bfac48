package pipeline

import (
	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

// LoadState reads a project file and selects the samples of factor (all
// samples when factor is empty). A non-empty imagePath replaces the
// project's icon base path.
func LoadState(path, factor, imagePath string) (*sample.Project, sample.State, error) {
	p, err := sample.Load(path)
	if err != nil {
		return nil, sample.State{}, err
	}
	if err := errors.ValidateFactorName(factor); factor != "" && err != nil {
		return nil, sample.State{}, err
	}
	st, err := p.State(factor)
	if err != nil {
		return nil, sample.State{}, err
	}
	if imagePath != "" {
		if err := errors.ValidateImagePath(imagePath); err != nil {
			return nil, sample.State{}, err
		}
		st.ImagePath = imagePath
	}
	return p, st, nil
}
