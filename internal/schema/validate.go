package schema

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/docsmith/docsmith/internal/docs"
)

// ValidateDoc canonicalizes the primary documentation section. The
// returned map always carries the injected fields the templates rely on
// (module, collection, plugin_type, now_date, option_keys, author).
func ValidateDoc(id docs.Identity, raw docs.RawRecord) (map[string]any, error) {
	section, ok := raw.Doc.(map[string]any)
	if !ok || section == nil {
		return nil, fmt.Errorf("documentation section missing for %s", id)
	}

	doc := make(map[string]any, len(section)+8)
	for key, value := range section {
		doc[key] = value
	}

	short, ok := doc["short_description"].(string)
	if !ok || strings.TrimSpace(short) == "" {
		return nil, fmt.Errorf("short_description is required for %s", id)
	}
	doc["short_description"] = strings.TrimSuffix(strings.TrimSpace(short), ".")

	description, err := stringList(doc["description"])
	if err != nil {
		return nil, fmt.Errorf("description for %s: %w", id, err)
	}
	doc["description"] = description

	optionKeys, err := normalizeOptions(id, doc)
	if err != nil {
		return nil, err
	}
	doc["option_keys"] = optionKeys

	author, err := stringList(doc["author"])
	if err != nil {
		return nil, fmt.Errorf("author for %s: %w", id, err)
	}
	if len(author) == 0 {
		author = []string{"UNKNOWN"}
	}
	doc["author"] = author

	if raw.Deprecated {
		doc["deprecated"] = true
	}

	doc["module"] = id.Name
	doc["collection"] = id.Namespace()
	doc["plugin_type"] = id.Kind
	doc["now_date"] = time.Now().Format("2006-01-02")
	return doc, nil
}

func normalizeOptions(id docs.Identity, doc map[string]any) ([]string, error) {
	raw, present := doc["options"]
	if !present || raw == nil {
		if present {
			return nil, fmt.Errorf("options must be a mapping when used for %s", id)
		}
		return []string{}, nil
	}
	options, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("options must be a mapping when used for %s", id)
	}
	normalized, keys, err := optionTree(id, options, nil)
	if err != nil {
		return nil, err
	}
	doc["options"] = normalized
	return keys, nil
}

// optionTree validates one level of the option hierarchy, annotating
// every entry with its full hierarchical key, and recurses into
// suboptions the same way returnValues recurses into contains.
func optionTree(id docs.Identity, options map[string]any, fullKey []string) (map[string]any, []string, error) {
	normalized := make(map[string]any, len(options))
	keys := make([]string, 0, len(options))
	for name, value := range options {
		option, ok := value.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("option %s for %s must be a mapping", name, id)
		}
		clone := make(map[string]any, len(option)+1)
		for k, v := range option {
			clone[k] = v
		}
		key := append(append([]string{}, fullKey...), name)
		clone["full_key"] = key

		description, err := stringList(clone["description"])
		if err != nil || len(description) == 0 {
			return nil, nil, fmt.Errorf("missing required description for option %s in %s", strings.Join(key, "/"), id)
		}
		clone["description"] = description

		if requiredValue, present := clone["required"]; present {
			if _, ok := requiredValue.(bool); !ok {
				return nil, nil, fmt.Errorf("invalid required value %v for option %s in %s (must be a boolean)", requiredValue, strings.Join(key, "/"), id)
			}
		}

		// Boolean options often spell their default as a string; fold
		// it into a real bool where the spelling is unambiguous.
		if clone["type"] == "bool" {
			if def, present := clone["default"]; present {
				if b, ok := looseBool(def); ok {
					clone["default"] = b
				}
			}
		}

		if sub, present := clone["suboptions"]; present && sub != nil {
			nested, ok := sub.(map[string]any)
			if !ok {
				return nil, nil, fmt.Errorf("suboptions for option %s in %s must be a mapping", strings.Join(key, "/"), id)
			}
			subNormalized, _, err := optionTree(id, nested, key)
			if err != nil {
				return nil, nil, err
			}
			clone["suboptions"] = subNormalized
		}

		normalized[name] = clone
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return normalized, keys, nil
}

// ValidateExamples accepts a plain string (or nothing) as the examples
// section.
func ValidateExamples(id docs.Identity, raw any) (string, error) {
	if raw == nil {
		return "", nil
	}
	examples, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("examples for %s must be a string, got %T", id, raw)
	}
	return examples, nil
}

// ValidateReturn canonicalizes the return-value documentation into an
// ordered list, annotating every entry with its full hierarchical key.
func ValidateReturn(id docs.Identity, raw any) ([]docs.ReturnValue, error) {
	if raw == nil {
		return nil, nil
	}
	section, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("return documentation for %s must be a mapping, got %T", id, raw)
	}
	return returnValues(id, section, nil)
}

func returnValues(id docs.Identity, section map[string]any, fullKey []string) ([]docs.ReturnValue, error) {
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]docs.ReturnValue, 0, len(names))
	for _, name := range names {
		entry, ok := section[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("return value %s for %s must be a mapping", name, id)
		}
		description, err := stringList(entry["description"])
		if err != nil {
			return nil, fmt.Errorf("return value %s for %s: %w", name, id, err)
		}
		key := append(append([]string{}, fullKey...), name)
		value := docs.ReturnValue{
			Name:        name,
			Description: description,
			Type:        stringOr(entry["type"], ""),
			Returned:    stringOr(entry["returned"], ""),
			Sample:      entry["sample"],
			FullKey:     key,
		}
		if contains, present := entry["contains"]; present && contains != nil {
			nested, ok := contains.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("return value %s for %s: contains must be a mapping", name, id)
			}
			children, err := returnValues(id, nested, key)
			if err != nil {
				return nil, err
			}
			value.Contains = children
		}
		values = append(values, value)
	}
	return values, nil
}

// stringList coerces a scalar string to a one-element list and checks
// that lists only hold strings. nil yields an empty list.
func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("must be a string or list of strings, got %T element", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or list of strings, got %T", raw)
	}
}

func stringOr(raw any, fallback string) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fallback
}

// looseBool folds common YAML bool spellings into a real bool. The
// second return is false when the spelling is ambiguous, in which case
// the caller keeps the original value.
func looseBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "true", "on", "1":
			return true, true
		case "no", "false", "off", "0":
			return false, true
		}
	case int:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	}
	return false, false
}
