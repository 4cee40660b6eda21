package loot

import (
	"fmt"

	"github.com/aretw0/trove/pkg/domain"
	"gopkg.in/yaml.v3"
)

var paramDecoders = map[string]func([]byte) (any, error){
	domain.ParamThisEntity.Name():         decodeAs[domain.Entity],
	domain.ParamKillerEntity.Name():       decodeAs[domain.Entity],
	domain.ParamDirectKillerEntity.Name(): decodeAs[domain.Entity],
	domain.ParamLastDamagePlayer.Name():   decodeAs[domain.Entity],
	domain.ParamDamageSource.Name():       decodeAs[string],
	domain.ParamOrigin.Name():             decodeAs[domain.Position],
	domain.ParamTool.Name():               decodeAs[domain.Item],
	domain.ParamBlockState.Name():         decodeAs[string],
	domain.ParamBlockEntity.Name():        decodeAs[map[string]any],
	domain.ParamExplosionRadius.Name():    decodeAs[float64],
}

func decodeAs[T any](raw []byte) (any, error) {
	var v T
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// WithEncodedParam decodes raw (YAML or JSON) into the type registered for a
// built-in key. Other keys keep their generic decoded form.
func (b *ParamsBuilder) WithEncodedParam(name string, raw []byte) error {
	decode, ok := paramDecoders[name]
	if !ok {
		decode = decodeAs[any]
	}
	v, err := decode(raw)
	if err != nil {
		return fmt.Errorf("invalid value for parameter %s: %w", name, err)
	}
	b.WithParam(name, v)
	return nil
}
