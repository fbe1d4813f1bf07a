package conformance

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"veld/semantics-go/pkg/runtime"
)

// decodeValue turns the tagged YAML value encoding into a runtime value.
// Every non-null value is written in tagged form so fixtures stay
// unambiguous about kinds:
//
//	null
//	{int: 3}
//	{float: 1.5}    also {float: inf}, {float: -inf}, {float: nan}
//	{string: "x"}
//	{bool: true}
//	{array: [...]}  entries are values or {key: ..., value: ...} pairs
//	{object: {class: C, props: {...}, text: "..."}}
//	{resource: {id: 3, type: stream}}
func decodeValue(node *yaml.Node) (runtime.Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeValue(node.Alias)
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return runtime.NullValue{}, nil
		}
		return nil, fmt.Errorf("line %d: bare scalar %q, use a tagged form like {int: 1}", node.Line, node.Value)
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return nil, fmt.Errorf("line %d: a value mapping holds exactly one tag", node.Line)
		}
		var tag string
		if err := node.Content[0].Decode(&tag); err != nil {
			return nil, err
		}
		body := node.Content[1]
		switch tag {
		case "int":
			var n int64
			if err := body.Decode(&n); err != nil {
				return nil, fmt.Errorf("line %d: int: %w", body.Line, err)
			}
			return runtime.IntValue{Val: n}, nil
		case "float":
			return decodeFloat(body)
		case "string":
			var s string
			if err := body.Decode(&s); err != nil {
				return nil, fmt.Errorf("line %d: string: %w", body.Line, err)
			}
			return runtime.StringValue{Val: s}, nil
		case "bool":
			var b bool
			if err := body.Decode(&b); err != nil {
				return nil, fmt.Errorf("line %d: bool: %w", body.Line, err)
			}
			return runtime.BoolValue{Val: b}, nil
		case "array":
			return decodeArray(body)
		case "object":
			return decodeObject(body)
		case "resource":
			return decodeResource(body)
		default:
			return nil, fmt.Errorf("line %d: unknown value form %q", node.Line, tag)
		}
	default:
		return nil, fmt.Errorf("line %d: unsupported node for a value", node.Line)
	}
}

// decodeFloat accepts the word spellings for the non-finite floats; YAML has
// its own (".inf") but the fixtures read better without the leading dot.
func decodeFloat(body *yaml.Node) (runtime.Value, error) {
	if body.Kind == yaml.ScalarNode {
		switch strings.ToLower(strings.TrimSpace(body.Value)) {
		case "inf", "+inf":
			return runtime.FloatValue{Val: math.Inf(1)}, nil
		case "-inf":
			return runtime.FloatValue{Val: math.Inf(-1)}, nil
		case "nan":
			return runtime.FloatValue{Val: math.NaN()}, nil
		}
	}
	var f float64
	if err := body.Decode(&f); err != nil {
		return nil, fmt.Errorf("line %d: float: %w", body.Line, err)
	}
	return runtime.FloatValue{Val: f}, nil
}

func decodeArray(body *yaml.Node) (runtime.Value, error) {
	if body.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: array takes a sequence", body.Line)
	}
	arr := runtime.NewArray()
	for _, item := range body.Content {
		if keyNode, valueNode, ok := keyedEntry(item); ok {
			kv, err := decodeValue(keyNode)
			if err != nil {
				return nil, err
			}
			key, keyable := runtime.KeyOf(kv)
			if !keyable {
				return nil, fmt.Errorf("line %d: array keys must be int or string values", keyNode.Line)
			}
			v, err := decodeValue(valueNode)
			if err != nil {
				return nil, err
			}
			arr.Set(key, v)
			continue
		}
		v, err := decodeValue(item)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
	return arr, nil
}

// keyedEntry recognises the two-field {key: ..., value: ...} form used for
// explicit array keys. Single-pair mappings fall through to the tagged value
// forms.
func keyedEntry(node *yaml.Node) (key, value *yaml.Node, ok bool) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 4 {
		return nil, nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return nil, nil, false
		}
		switch name {
		case "key":
			key = node.Content[i+1]
		case "value":
			value = node.Content[i+1]
		default:
			return nil, nil, false
		}
	}
	if key == nil || value == nil {
		return nil, nil, false
	}
	return key, value, true
}

func decodeObject(body *yaml.Node) (runtime.Value, error) {
	if body.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: object takes a mapping", body.Line)
	}
	var (
		class string
		text  *string
		props *yaml.Node
	)
	for i := 0; i+1 < len(body.Content); i += 2 {
		var name string
		if err := body.Content[i].Decode(&name); err != nil {
			return nil, err
		}
		val := body.Content[i+1]
		switch name {
		case "class":
			if err := val.Decode(&class); err != nil {
				return nil, fmt.Errorf("line %d: object class: %w", val.Line, err)
			}
		case "text":
			var s string
			if err := val.Decode(&s); err != nil {
				return nil, fmt.Errorf("line %d: object text: %w", val.Line, err)
			}
			text = &s
		case "props":
			props = val
		default:
			return nil, fmt.Errorf("line %d: object has no field %q", body.Content[i].Line, name)
		}
	}
	if strings.TrimSpace(class) == "" {
		return nil, fmt.Errorf("line %d: object needs a class", body.Line)
	}

	var obj *runtime.ObjectValue
	if text != nil {
		rendered := *text
		obj = runtime.NewStringableObject(class, func(*runtime.ObjectValue) (string, error) {
			return rendered, nil
		})
	} else {
		obj = runtime.NewObject(class)
	}

	if props != nil && !isNullNode(props) {
		if props.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: object props must be a mapping", props.Line)
		}
		for i := 0; i+1 < len(props.Content); i += 2 {
			var name string
			if err := props.Content[i].Decode(&name); err != nil {
				return nil, err
			}
			v, err := decodeValue(props.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.SetProp(name, v)
		}
	}
	return obj, nil
}

func decodeResource(body *yaml.Node) (runtime.Value, error) {
	if body.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: resource takes a mapping", body.Line)
	}
	var res runtime.ResourceValue
	for i := 0; i+1 < len(body.Content); i += 2 {
		var name string
		if err := body.Content[i].Decode(&name); err != nil {
			return nil, err
		}
		val := body.Content[i+1]
		switch name {
		case "id":
			if err := val.Decode(&res.ID); err != nil {
				return nil, fmt.Errorf("line %d: resource id: %w", val.Line, err)
			}
		case "type":
			if err := val.Decode(&res.Type); err != nil {
				return nil, fmt.Errorf("line %d: resource type: %w", val.Line, err)
			}
		default:
			return nil, fmt.Errorf("line %d: resource has no field %q", body.Content[i].Line, name)
		}
	}
	return res, nil
}

func isNullNode(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
