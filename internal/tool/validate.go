package tool

import "fmt"

// validateArgs checks the argument mapping against the declared
// parameter schema: required keys must be present and values must match
// the declared primitive type. This is structural validation only;
// semantic checks belong to the handler.
func validateArgs(decl Declaration, args map[string]any) error {
	required, _ := decl.Parameters["required"].([]string)
	if required == nil {
		if raw, ok := decl.Parameters["required"].([]any); ok {
			for _, r := range raw {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
		}
	}
	for _, name := range required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("missing required argument %q", name)
		}
	}

	props, _ := decl.Parameters["properties"].(map[string]any)
	for name, value := range args {
		spec, ok := props[name].(map[string]any)
		if !ok {
			return fmt.Errorf("unexpected argument %q", name)
		}
		typ, _ := spec["type"].(string)
		if !matchesType(typ, value) {
			return fmt.Errorf("argument %q must be of type %s", name, typ)
		}
	}
	return nil
}

func matchesType(typ string, value any) bool {
	switch typ {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "number":
		switch value.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case "integer":
		switch v := value.(type) {
		case int, int64:
			return true
		case float64:
			return v == float64(int64(v))
		}
		return false
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "":
		return true
	default:
		return true
	}
}
