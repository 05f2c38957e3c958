package ml

import (
	"errors"
)

// LoadModel deserializes the artifact at path into a predictor of the given
// type. Only "linear" is supported.
func LoadModel(modelType, path string) (*LinearModel, error) {
	switch modelType {
	case "", "linear":
		model := NewLinearModel()
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, errors.New("unsupported model type")
	}
}
