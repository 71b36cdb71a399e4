package registry

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rainbowlang/rainbow/src/types"
)

type (
	yamlFile struct {
		Functions []yamlFunc `yaml:"functions"`
	}
	yamlFunc struct {
		Name    string      `yaml:"name"`
		Partial bool        `yaml:"partial"`
		Effects []string    `yaml:"effects"`
		Output  string      `yaml:"output"`
		Params  []yamlParam `yaml:"params"`
	}
	yamlParam struct {
		Name     string `yaml:"name"`
		Type     string `yaml:"type"`
		Variadic bool   `yaml:"variadic"`
		Optional bool   `yaml:"optional"`
	}
)

// Load registers every signature declared in a YAML document. Types are
// written in the display notation, for example:
//
//	functions:
//	  - name: fetch
//	    partial: true
//	    effects: [Network]
//	    output: "[ body=string status=number ]"
//	    params:
//	      - name: fetch
//	        type: string
func (r *Registry) Load(src io.Reader) error {
	var file yamlFile
	if err := yaml.NewDecoder(src).Decode(&file); err != nil {
		return confErr("invalid signature document: %w", err)
	}
	for _, yfn := range file.Functions {
		fn, err := yfn.signature()
		if err != nil {
			return err
		}
		if err := r.Register(fn); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile registers every signature declared in a YAML file.
func (r *Registry) LoadFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return confErr("cannot read signatures: %w", err)
	}
	defer src.Close()
	return r.Load(src)
}

func (yfn yamlFunc) signature() (*types.Function, error) {
	fn := &types.Function{
		Name:    yfn.Name,
		Partial: yfn.Partial,
		Effects: types.Effects(),
	}
	for _, tag := range yfn.Effects {
		fn.Effects.Add(types.EffectTag(tag))
	}
	out, err := parseYamlType(yfn.Name, "output", yfn.Output)
	if err != nil {
		return nil, err
	}
	fn.Output = out
	for _, yparam := range yfn.Params {
		ty, err := parseYamlType(yfn.Name, yparam.Name, yparam.Type)
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, types.Param{
			Name:     yparam.Name,
			Type:     ty,
			Variadic: yparam.Variadic,
			Optional: yparam.Optional || yparam.Variadic,
		})
	}
	return fn, nil
}

func parseYamlType(fnName, label, notation string) (types.Type, error) {
	if notation == "" {
		return nil, confErr("function %q: %s has no type", fnName, label)
	}
	ty, err := types.ParseNotation(notation)
	if err != nil {
		return nil, confErr("function %q: %s: %w", fnName, label, err)
	}
	return ty, nil
}
